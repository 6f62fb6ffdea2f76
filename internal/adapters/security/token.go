package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DownloadTokenGenerator mints opaque URL-safe tokens. 32 random bytes keeps
// tokens unguessable while staying comfortably inside header/query limits.
type DownloadTokenGenerator struct{}

func NewDownloadTokenGenerator() *DownloadTokenGenerator {
	return &DownloadTokenGenerator{}
}

func (DownloadTokenGenerator) NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate download token: %w", err)
	}
	return "dl_" + base64.RawURLEncoding.EncodeToString(buf), nil
}
