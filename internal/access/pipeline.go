package access

import (
	"context"

	"umkm-marketplace/internal/domain"
)

// Route is the authorization plan for one endpoint: a permission chain
// followed by zero or more resource-state gates.
type Route struct {
	Name   string
	Policy Chain
	States []StateGate
}

func (r Route) Authorize(ctx context.Context, p *domain.Principal, src Source) error {
	if p == nil {
		return ErrPermissionDenied.withMsg("authentication required")
	}
	if err := r.Policy.Evaluate(ctx, p, src); err != nil {
		return err
	}
	for _, g := range r.States {
		if err := g.Check(ctx, p, src); err != nil {
			return err
		}
	}
	return nil
}

// Pipeline runs the request-wide stages: identity, then suspension.
type Pipeline struct {
	Resolver   *Resolver
	Suspension *SuspensionGate
}

// Admit returns (nil, nil) for public paths, which bypass every gate.
func (pl *Pipeline) Admit(ctx context.Context, authHeader, path string) (*domain.Principal, error) {
	p, err := pl.Resolver.Resolve(authHeader, path)
	if err != nil || p == nil {
		return nil, err
	}
	if err := pl.Suspension.Check(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
