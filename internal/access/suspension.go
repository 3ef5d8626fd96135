package access

import (
	"context"
	"errors"
	"fmt"

	"umkm-marketplace/internal/domain"
)

type AccountStore interface {
	IsSuspended(ctx context.Context, id int64) (bool, error)
}

// SuspensionGate re-reads the account flag on every call; suspension can be
// toggled after a token was issued.
type SuspensionGate struct {
	store AccountStore
}

func NewSuspensionGate(s AccountStore) *SuspensionGate { return &SuspensionGate{store: s} }

// Check denies suspended accounts whatever their role. A principal whose
// account no longer exists is treated as holding invalid credentials.
func (g *SuspensionGate) Check(ctx context.Context, p *domain.Principal) error {
	if p == nil {
		return ErrPermissionDenied.at(StageSuspension)
	}
	suspended, err := g.store.IsSuspended(ctx, p.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrInvalidCredentials.at(StageSuspension).withMsg("account no longer exists")
	case err != nil:
		return fmt.Errorf("suspension lookup for user %d: %w", p.ID, err)
	case suspended:
		return ErrAccountSuspended
	}
	return nil
}
