package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

// Minimal fakes backing the handler tests. Only the ports the routed
// endpoints touch are implemented; the rest stay nil.

type stubSessions struct {
	mu   sync.Mutex
	rows map[string]domain.DownloadSession
}

func (s *stubSessions) Create(_ context.Context, sess domain.DownloadSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sess.SessionID] = sess
	return nil
}

func (s *stubSessions) Update(_ context.Context, sess domain.DownloadSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[sess.SessionID]; !ok {
		return domain.ErrNotFound
	}
	s.rows[sess.SessionID] = sess
	return nil
}

func (s *stubSessions) GetByID(_ context.Context, id string) (domain.DownloadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.rows[id]
	if !ok {
		return domain.DownloadSession{}, domain.ErrNotFound
	}
	return sess, nil
}

func (s *stubSessions) GetByToken(_ context.Context, token string) (domain.DownloadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.rows {
		if sess.Token == token {
			return sess, nil
		}
	}
	return domain.DownloadSession{}, domain.ErrNotFound
}

func (s *stubSessions) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.DownloadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DownloadSession
	for _, sess := range s.rows {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

type stubProjects struct {
	rows map[string]domain.Project
}

func (s *stubProjects) GetByID(_ context.Context, id string) (domain.Project, error) {
	p, ok := s.rows[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

type stubOutbox struct {
	mu   sync.Mutex
	rows []ports.OutboxRecord
}

func (s *stubOutbox) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, record)
	return nil
}

func (s *stubOutbox) ListPending(_ context.Context, _ int) ([]ports.OutboxRecord, error) {
	return nil, nil
}

func (s *stubOutbox) MarkSent(_ context.Context, _ string, _ time.Time) error { return nil }

// brokenFile returns the first chunk of the payload and then fails, standing
// in for a storage read error mid-stream.
type brokenFile struct {
	data []byte
	read bool
}

func (f *brokenFile) Read(p []byte) (int, error) {
	if f.read {
		return 0, fmt.Errorf("read archive: device error")
	}
	f.read = true
	n := copy(p, f.data)
	return n, nil
}

func (f *brokenFile) Close() error { return nil }

type stubFiles struct {
	files  map[string][]byte
	broken bool
}

func (s *stubFiles) info(key string, blob []byte) ports.FileInfo {
	return ports.FileInfo{Key: key, Name: "starter.zip", Size: int64(len(blob)), MimeType: "application/zip"}
}

func (s *stubFiles) Stat(_ context.Context, key string) (ports.FileInfo, error) {
	blob, ok := s.files[key]
	if !ok {
		return ports.FileInfo{}, domain.ErrNotFound
	}
	return s.info(key, blob), nil
}

func (s *stubFiles) Open(_ context.Context, key string) (io.ReadCloser, ports.FileInfo, error) {
	blob, ok := s.files[key]
	if !ok {
		return nil, ports.FileInfo{}, domain.ErrNotFound
	}
	if s.broken {
		return &brokenFile{data: blob[:4]}, s.info(key, blob), nil
	}
	return io.NopCloser(bytes.NewReader(blob)), s.info(key, blob), nil
}

type stubTokens struct {
	mu  sync.Mutex
	seq int
}

func (s *stubTokens) NewToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("dl_streamtoken%04d", s.seq), nil
}

type stubTransactions struct {
	completed map[string]bool
	rows      map[string]domain.Transaction // keyed by gateway order id
}

func (s *stubTransactions) Create(context.Context, domain.Transaction) error { return nil }
func (s *stubTransactions) Update(context.Context, domain.Transaction) error { return nil }
func (s *stubTransactions) GetByID(context.Context, string) (domain.Transaction, error) {
	return domain.Transaction{}, domain.ErrNotFound
}
func (s *stubTransactions) GetByGatewayOrderID(_ context.Context, gatewayOrderID string) (domain.Transaction, error) {
	t, ok := s.rows[gatewayOrderID]
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return t, nil
}
func (s *stubTransactions) HasCompletedPurchase(_ context.Context, buyerID, projectID string) (bool, error) {
	return s.completed[buyerID+"/"+projectID], nil
}
func (s *stubTransactions) List(context.Context, ports.TransactionListQuery) ([]domain.Transaction, int, error) {
	return nil, 0, nil
}
func (s *stubTransactions) ListStalePending(context.Context, time.Time, int) ([]domain.Transaction, error) {
	return nil, nil
}

type stubWebhooks struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (s *stubWebhooks) IsDuplicate(_ context.Context, eventID string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[eventID], nil
}

func (s *stubWebhooks) MarkProcessed(_ context.Context, eventID, _, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[eventID] = true
	return nil
}

type stubSigner struct{}

func (stubSigner) Sign(claims ports.AuthClaims) (string, error) {
	return "tok-" + claims.UserID, nil
}

func (stubSigner) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	if len(raw) <= 4 || raw[:4] != "tok-" {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	return ports.AuthClaims{UserID: raw[4:], Role: "buyer"}, nil
}

const (
	streamBuyerID   = "buyer-1"
	streamProjectID = "proj-1"
	streamFileKey   = "archives/starter.zip"
	streamOrderID   = "order_stream1"
)

type handlerEnv struct {
	service      *application.Service
	sessions     *stubSessions
	files        *stubFiles
	transactions *stubTransactions
}

func newHandlerEnv() *handlerEnv {
	env := &handlerEnv{
		sessions: &stubSessions{rows: map[string]domain.DownloadSession{}},
		files: &stubFiles{files: map[string][]byte{
			streamFileKey: []byte("zip-archive-payload"),
		}},
	}
	projects := &stubProjects{rows: map[string]domain.Project{
		streamProjectID: {
			ProjectID: streamProjectID,
			SellerID:  "seller-1",
			Title:     "Starter",
			Price:     49900,
			Currency:  "INR",
			Status:    domain.ProjectStatusApproved,
			FileKey:   streamFileKey,
			FileName:  "starter.zip",
			FileSize:  19,
			MimeType:  "application/zip",
		},
	}}
	settledAt := time.Now().UTC().Add(-time.Hour)
	env.transactions = &stubTransactions{
		completed: map[string]bool{
			streamBuyerID + "/" + streamProjectID: true,
		},
		rows: map[string]domain.Transaction{
			streamOrderID: {
				TransactionID:  "txn-stream-1",
				BuyerID:        streamBuyerID,
				ProjectID:      streamProjectID,
				GatewayOrderID: streamOrderID,
				Amount:         49900,
				Currency:       "INR",
				Status:         domain.TransactionStatusCompleted,
				CompletedAt:    &settledAt,
			},
		},
	}
	env.service = application.NewService(application.Dependencies{
		Config: application.Config{
			DownloadTTL:  24 * time.Hour,
			MaxDownloads: 5,
		},
		Transactions: env.transactions,
		Downloads:    env.sessions,
		Projects:     projects,
		Webhooks:     &stubWebhooks{seen: map[string]bool{}},
		Outbox:       &stubOutbox{},
		Files:        env.files,
		Tokens:       &stubTokens{},
		Signer:       stubSigner{},
	})
	return env
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
