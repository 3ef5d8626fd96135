package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"umkm-marketplace/internal/domain"
	"umkm-marketplace/pkg/utils"
)

type TokenIssuer interface {
	Issue(p domain.Principal) (string, error)
}

type AuthService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	now    func() time.Time
}

func NewAuthService(users domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: time.Now}
}

type Session struct {
	User  *domain.User
	Token string
}

// Register creates an account and returns a token for it straight away.
func (s *AuthService) Register(ctx context.Context, phone, password, role string) (*Session, error) {
	u, err := newAccount(phone, password, role)
	if err != nil {
		return nil, err
	}
	now := s.now()
	u.Log = "Registration log: " + now.Format(time.RFC3339)
	u.Timestamp = now
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: phone number already registered", domain.ErrConflict)
		}
		return nil, err
	}
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, phone, password string) (*Session, error) {
	phone = strings.TrimSpace(phone)
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	u, err := s.users.FindByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}

	now := s.now()
	u.Log = "Login successful: " + now.Format(time.RFC3339)
	u.Timestamp = now
	if err := s.users.RecordLogin(ctx, u.ID, u.Log, now); err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *AuthService) session(u *domain.User) (*Session, error) {
	tok, err := s.tokens.Issue(domain.Principal{ID: u.ID, Phone: u.Phone, Role: u.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: u, Token: tok}, nil
}

// newAccount validates registration input and hashes the password.
func newAccount(phone, password, role string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone number is required", domain.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if len(password) < utils.MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, utils.MinPasswordLen)
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be USER or ADMIN", domain.ErrInvalidInput)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{Phone: phone, PasswordHash: hash, Role: r}, nil
}
