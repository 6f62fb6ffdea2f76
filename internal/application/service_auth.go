package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

// Register creates a buyer or seller account. Admins are provisioned out of
// band and rejected here.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := domain.UserRole(strings.ToLower(strings.TrimSpace(input.Role)))
	if role == "" {
		role = domain.RoleBuyer
	}
	if err := domain.ValidateRegisterInput(email, input.Name, input.Password, role); err != nil {
		return domain.User{}, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return domain.User{}, err
	}
	now := s.nowFn()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

type LoginOutput struct {
	Token  string
	User   domain.User
	Claims ports.AuthClaims
}

// Login verifies credentials and issues a bearer token. The error is the
// same whether the email or the password was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (LoginOutput, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginOutput{}, domain.ErrInvalidInput
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoginOutput{}, domain.ErrInvalidCredentials
		}
		return LoginOutput{}, err
	}
	if !user.IsActive {
		return LoginOutput{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return LoginOutput{}, domain.ErrInvalidCredentials
	}

	now := s.nowFn()
	claims := ports.AuthClaims{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      string(user.Role),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	token, err := s.signer.Sign(claims)
	if err != nil {
		return LoginOutput{}, err
	}
	return LoginOutput{Token: token, User: user, Claims: claims}, nil
}

// ResolveToken turns a raw bearer token into an Actor for the middleware.
func (s *Service) ResolveToken(raw string) (Actor, error) {
	claims, err := s.signer.ParseAndValidate(raw)
	if err != nil {
		return Actor{}, domain.ErrUnauthorized
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, nil
}
