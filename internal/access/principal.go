package access

import (
	"context"

	"umkm-marketplace/internal/domain"
)

type principalKey struct{}

// WithPrincipal attaches p to a request-scoped context. The stored value is
// a copy so handlers cannot mutate the identity mid-request.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the request's principal, or nil when none was resolved.
func PrincipalFrom(ctx context.Context) *domain.Principal {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	if !ok {
		return nil
	}
	return &p
}
