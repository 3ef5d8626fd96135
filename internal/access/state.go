package access

import (
	"context"
	"errors"
	"fmt"

	"umkm-marketplace/internal/domain"
)

// ResourceLookup reads owner and active flag of a storefront or product.
// It returns domain.ErrNotFound for unknown ids.
type ResourceLookup interface {
	OwnerAndStatus(ctx context.Context, id int64) (domain.ResourceState, error)
}

// StateGate blocks operations on inactive resources. When the request
// carries no identifier the gate does nothing.
//
// OwnerWhenInactive lets the owner keep working on their own inactive
// resource; admins always pass.
type StateGate struct {
	Name              string
	Lookup            ResourceLookup
	IDs               Extractors
	OwnerWhenInactive bool
}

func (g StateGate) Check(ctx context.Context, p *domain.Principal, src Source) error {
	id, ok, err := g.IDs.ID(src)
	if err != nil {
		return ErrInvalidResourceID.withMsg("invalid " + g.label() + " id")
	}
	if !ok {
		return nil
	}
	if p == nil {
		return ErrPermissionDenied.at(StageResourceState).withMsg("authentication required")
	}

	st, err := g.Lookup.OwnerAndStatus(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrResourceNotFound.withMsg(g.label() + " not found")
	}
	if err != nil {
		return fmt.Errorf("%s %d state lookup: %w", g.label(), id, err)
	}

	if st.Active || p.IsAdmin() {
		return nil
	}
	if p.ID == st.OwnerID && g.OwnerWhenInactive {
		return nil
	}
	return ErrResourceInactive.withMsg(g.label() + " is inactive, operation not permitted")
}

func (g StateGate) label() string {
	if g.Name == "" {
		return "resource"
	}
	return g.Name
}
