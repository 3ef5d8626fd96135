package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"umkm-marketplace/internal/domain"
)

// memDB backs the in-memory repositories used by the engine tests.
type memDB struct {
	mu       sync.Mutex
	users    map[int64]*domain.User
	umkms    map[int64]*domain.UMKM
	products map[int64]*domain.Product
	seq      int64
	lookups  int
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[int64]*domain.User{},
		umkms:    map[int64]*domain.UMKM{},
		products: map[int64]*domain.Product{},
	}
}

func (db *memDB) next() int64 { db.seq++; return db.seq }

type memUsers struct{ *memDB }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.users {
		if x.Phone == u.Phone {
			return domain.ErrConflict
		}
	}
	if u.ID == 0 {
		u.ID = r.next()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r memUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) FindByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) PhoneTaken(_ context.Context, phone string, exceptID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Phone == phone && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memUsers) Update(_ context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r memUsers) SetSuspended(_ context.Context, id int64, s bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Suspended = s
	return nil
}

func (r memUsers) IsSuspended(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	return u.Suspended, nil
}

func (r memUsers) RecordLogin(_ context.Context, id int64, log string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Log, u.Timestamp = log, at
	}
	return nil
}

type memUMKMs struct{ *memDB }

func (r memUMKMs) Create(_ context.Context, u *domain.UMKM) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.next()
	cp := *u
	r.umkms[u.ID] = &cp
	return nil
}

func (r memUMKMs) withProducts(u domain.UMKM) domain.UMKM {
	u.Products = []domain.Product{}
	for _, p := range r.products {
		if p.UMKMID == u.ID {
			u.Products = append(u.Products, *p)
		}
	}
	return u
}

func (r memUMKMs) FindByID(_ context.Context, id int64, withProducts bool) (*domain.UMKM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.umkms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	if withProducts {
		cp = r.withProducts(cp)
	}
	return &cp, nil
}

func (r memUMKMs) filter(keep func(*domain.UMKM) bool) []domain.UMKM {
	var out []domain.UMKM
	for _, u := range r.umkms {
		if keep(u) {
			out = append(out, r.withProducts(*u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memUMKMs) List(context.Context) ([]domain.UMKM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(*domain.UMKM) bool { return true }), nil
}

func (r memUMKMs) ListByUser(_ context.Context, userID int64) ([]domain.UMKM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(u *domain.UMKM) bool { return u.UserID == userID }), nil
}

func (r memUMKMs) ListInactive(_ context.Context, userID *int64) ([]domain.UMKM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(u *domain.UMKM) bool {
		return !u.Status && (userID == nil || u.UserID == *userID)
	}), nil
}

func (r memUMKMs) Update(_ context.Context, u *domain.UMKM) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.umkms[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	r.umkms[u.ID] = &cp
	return nil
}

func (r memUMKMs) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.umkms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.umkms, id)
	for pid, p := range r.products {
		if p.UMKMID == id {
			delete(r.products, pid)
		}
	}
	return nil
}

func (r memUMKMs) DeleteInactive(_ context.Context, id, userID int64) (*domain.UMKM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.umkms[id]
	if !ok || u.UserID != userID || u.Status {
		return nil, domain.ErrNotFound
	}
	delete(r.umkms, id)
	return u, nil
}

func (r memUMKMs) SetStatus(_ context.Context, id int64, active bool) (*domain.UMKM, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.umkms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Status = active
	cp := *u
	return &cp, nil
}

func (r memUMKMs) OwnerAndStatus(_ context.Context, id int64) (domain.ResourceState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	u, ok := r.umkms[id]
	if !ok {
		return domain.ResourceState{}, domain.ErrNotFound
	}
	return domain.ResourceState{OwnerID: u.UserID, Active: u.Status}, nil
}

type memProducts struct{ *memDB }

func (r memProducts) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.next()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r memProducts) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) ListByUMKM(_ context.Context, umkmID int64) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.products {
		if p.UMKMID == umkmID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProducts) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r memProducts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r memProducts) SetPublished(_ context.Context, id int64, pub bool) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.IsPublik = pub
	cp := *p
	return &cp, nil
}

func (r memProducts) OwnerAndStatus(_ context.Context, id int64) (domain.ResourceState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	p, ok := r.products[id]
	if !ok {
		return domain.ResourceState{}, domain.ErrNotFound
	}
	u, ok := r.umkms[p.UMKMID]
	if !ok {
		return domain.ResourceState{}, domain.ErrNotFound
	}
	return domain.ResourceState{OwnerID: u.UserID, Active: u.Status}, nil
}
