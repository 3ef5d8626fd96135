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

type UserService struct {
	users domain.UserRepository
	now   func() time.Time
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Visible returns every account for admins and only the caller's own
// account otherwise.
func (s *UserService) Visible(ctx context.Context, actor domain.Principal) ([]domain.User, error) {
	if actor.Role == domain.RoleAdmin {
		return s.users.List(ctx)
	}
	u, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return []domain.User{*u}, nil
}

func (s *UserService) Create(ctx context.Context, phone, password, role string) (*domain.User, error) {
	if role == "" {
		role = string(domain.RoleUser)
	}
	u, err := newAccount(phone, password, role)
	if err != nil {
		return nil, err
	}
	now := s.now()
	u.Log = "Created by administrator: " + now.Format(time.RFC3339)
	u.Timestamp = now
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: phone number already registered", domain.ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

type UserUpdate struct {
	Phone    string
	Password string
	Role     string
}

// Update applies a profile change. Only admins may change roles.
func (s *UserService) Update(ctx context.Context, actor domain.Principal, id int64, in UserUpdate) (*domain.User, error) {
	var patch domain.UserPatch

	if phone := strings.TrimSpace(in.Phone); phone != "" {
		taken, err := s.users.PhoneTaken(ctx, phone, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: phone number is used by another account", domain.ErrConflict)
		}
		patch.Phone = &phone
	}
	if in.Password != "" {
		if len(in.Password) < utils.MinPasswordLen {
			return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, utils.MinPasswordLen)
		}
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: role must be USER or ADMIN", domain.ErrInvalidInput)
		}
		if actor.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: only administrators may change roles", domain.ErrForbidden)
		}
		patch.Role = &r
	}
	if patch.Phone == nil && patch.PasswordHash == nil && patch.Role == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	return s.users.Update(ctx, id, patch)
}

func (s *UserService) ChangeRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: role must be USER or ADMIN", domain.ErrInvalidInput)
	}
	return s.users.Update(ctx, id, domain.UserPatch{Role: &r})
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	return s.users.SetSuspended(ctx, id, suspended)
}
