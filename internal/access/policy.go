package access

import (
	"context"
	"errors"

	"umkm-marketplace/internal/domain"
)

// Predicate grants (nil) or denies (non-nil) one aspect of an operation.
// Predicates must not mutate anything; evaluating twice on the same input
// yields the same decision.
type Predicate interface {
	Evaluate(ctx context.Context, p *domain.Principal, src Source) error
}

type PredicateFunc func(ctx context.Context, p *domain.Principal, src Source) error

func (f PredicateFunc) Evaluate(ctx context.Context, p *domain.Principal, src Source) error {
	return f(ctx, p, src)
}

// Chain evaluates predicates left to right and stops at the first denial.
type Chain []Predicate

func Require(ps ...Predicate) Chain { return ps }

func (c Chain) Evaluate(ctx context.Context, p *domain.Principal, src Source) error {
	if p == nil {
		return ErrPermissionDenied.withMsg("authentication required")
	}
	for _, pred := range c {
		if err := pred.Evaluate(ctx, p, src); err != nil {
			if r, ok := AsRejection(err); ok {
				return r.at(StagePermission)
			}
			return err
		}
	}
	return nil
}

func RoleIs(roles ...domain.Role) Predicate {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return PredicateFunc(func(_ context.Context, p *domain.Principal, _ Source) error {
		if p == nil {
			return ErrPermissionDenied
		}
		if _, ok := allowed[p.Role]; !ok {
			return ErrPermissionDenied.withMsg("role " + string(p.Role) + " is not allowed here")
		}
		return nil
	})
}

// TargetFunc resolves the user id an operation is aimed at: the subject of
// SelfOrAdmin or the owner of a resource for ResourceOwnerOrAdmin.
type TargetFunc func(ctx context.Context, p *domain.Principal, src Source) (int64, error)

func IsSelfOrAdmin(p *domain.Principal, targetUserID int64) bool {
	return p != nil && (p.Role == domain.RoleAdmin || p.ID == targetUserID)
}

func IsOwnerOrAdmin(p *domain.Principal, ownerID int64) bool {
	return IsSelfOrAdmin(p, ownerID)
}

func SelfOrAdmin(target TargetFunc) Predicate {
	return PredicateFunc(func(ctx context.Context, p *domain.Principal, src Source) error {
		if p.IsAdmin() {
			return nil
		}
		id, err := target(ctx, p, src)
		if err != nil {
			return err
		}
		if !IsSelfOrAdmin(p, id) {
			return ErrPermissionDenied.withMsg("you may only act on your own account")
		}
		return nil
	})
}

// ResourceOwnerOrAdmin resolves the owner even for admins so a missing or
// unknown resource is reported the same way for every caller.
func ResourceOwnerOrAdmin(owner TargetFunc) Predicate {
	return PredicateFunc(func(ctx context.Context, p *domain.Principal, src Source) error {
		ownerID, err := owner(ctx, p, src)
		if err != nil {
			return err
		}
		if !IsOwnerOrAdmin(p, ownerID) {
			return ErrPermissionDenied.withMsg("you are not the owner of this resource")
		}
		return nil
	})
}

// UserID reads a target user id from the request. A missing value is an
// invalid-id rejection.
func UserID(xs Extractors) TargetFunc {
	return func(_ context.Context, _ *domain.Principal, src Source) (int64, error) {
		id, ok, err := xs.ID(src)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ErrInvalidResourceID.withMsg("missing user id")
		}
		return id, nil
	}
}

// UserIDOrSelf falls back to the principal's own id when the request names
// no target.
func UserIDOrSelf(xs Extractors) TargetFunc {
	return func(_ context.Context, p *domain.Principal, src Source) (int64, error) {
		id, ok, err := xs.ID(src)
		if err != nil {
			return 0, err
		}
		if !ok {
			return p.ID, nil
		}
		return id, nil
	}
}

// OwnerOf resolves the owner of the resource the request points at.
func OwnerOf(lookup ResourceLookup, xs Extractors) TargetFunc {
	return func(ctx context.Context, _ *domain.Principal, src Source) (int64, error) {
		id, ok, err := xs.ID(src)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ErrInvalidResourceID.withMsg("missing id")
		}
		st, err := lookup.OwnerAndStatus(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return 0, ErrResourceNotFound
		}
		if err != nil {
			return 0, err
		}
		return st.OwnerID, nil
	}
}
