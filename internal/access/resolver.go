package access

import (
	"errors"
	"strings"

	"umkm-marketplace/internal/core/auth"
	"umkm-marketplace/internal/domain"
)

// TokenDecoder is satisfied by *auth.JWTer.
type TokenDecoder interface {
	Decode(token string) (domain.Principal, error)
}

// Resolver turns an Authorization header into a Principal. Paths in the
// public set skip resolution entirely.
type Resolver struct {
	decoder TokenDecoder
	public  map[string]struct{}
}

func NewResolver(d TokenDecoder, publicPaths []string) *Resolver {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}
	return &Resolver{decoder: d, public: public}
}

func (r *Resolver) IsPublic(path string) bool {
	_, ok := r.public[path]
	return ok
}

// Resolve returns (nil, nil) for public paths. Decoder errors are mapped onto
// the credential rejections; their text is never passed through.
func (r *Resolver) Resolve(header, path string) (*domain.Principal, error) {
	if r.IsPublic(path) {
		return nil, nil
	}
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return nil, ErrMissingCredentials
	}
	raw := strings.TrimSpace(header[len(scheme):])
	if raw == "" {
		return nil, ErrMissingCredentials
	}

	p, err := r.decoder.Decode(raw)
	switch {
	case err == nil:
		return &p, nil
	case errors.Is(err, auth.ErrIncompleteToken):
		return nil, ErrIncompleteCredentials
	case errors.Is(err, auth.ErrExpiredToken):
		return nil, ErrInvalidCredentials.withMsg("token has expired")
	default:
		return nil, ErrInvalidCredentials
	}
}
