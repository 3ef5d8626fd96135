package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"umkm-marketplace/internal/core/cache"
	"umkm-marketplace/internal/domain"
)

const listingKey = "listing"

type UMKMService struct {
	umkms      domain.UMKMRepository
	cache      *cache.Cache
	listingTTL time.Duration
}

func NewUMKMService(umkms domain.UMKMRepository, c *cache.Cache, listingTTL time.Duration) *UMKMService {
	return &UMKMService{umkms: umkms, cache: c, listingTTL: listingTTL}
}

type UMKMInput struct {
	Nama      string `form:"nama"`
	Kategori  string `form:"kategori"`
	Deskripsi string `form:"deskripsi"`
	Alamat    string `form:"alamat"`
	NoKontak  string `form:"no_kontak"`
	NPWP      string `form:"npwp"`
	JamBuka   string `form:"jam_buka"`
	FotoUMKM  string `form:"foto_umkm"`
	Dokumen   string `form:"dokumen"`
	Status    string `form:"status_umkm"`
}

func (in UMKMInput) validate() error {
	required := []struct{ name, val string }{
		{"nama", in.Nama},
		{"kategori", in.Kategori},
		{"deskripsi", in.Deskripsi},
		{"alamat", in.Alamat},
		{"no_kontak", in.NoKontak},
	}
	for _, f := range required {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("%w: field '%s' is required", domain.ErrInvalidInput, f.name)
		}
	}
	return nil
}

// Summary is one row of a storefront listing. Inactive storefronts are
// listed by a notice instead of their data.
type Summary struct {
	ID      int64  `json:"id,omitempty"`
	Nama    string `json:"nama,omitempty"`
	Message string `json:"message,omitempty"`
}

func summarize(u domain.UMKM) Summary {
	if u.Status {
		return Summary{ID: u.ID, Nama: u.Nama}
	}
	return Summary{Message: fmt.Sprintf("umkm with id %d has been suspended", u.ID)}
}

func (s *UMKMService) Listing(ctx context.Context) ([]Summary, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, listingKey, s.listingTTL, func(ctx context.Context) ([]Summary, error) {
		us, err := s.umkms.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Summary, 0, len(us))
		for _, u := range us {
			out = append(out, summarize(u))
		}
		return out, nil
	})
}

// ByUser shows a user's storefronts: active ones in full, inactive ones as
// a notice.
func (s *UMKMService) ByUser(ctx context.Context, userID int64) ([]any, error) {
	us, err := s.umkms.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(us))
	for i := range us {
		if us[i].Status {
			if us[i].Products == nil {
				us[i].Products = []domain.Product{}
			}
			out = append(out, &us[i])
			continue
		}
		out = append(out, summarize(us[i]))
	}
	return out, nil
}

// Create registers a storefront owned by the actor. Only admins may create one that
// starts out inactive.
func (s *UMKMService) Create(ctx context.Context, actor domain.Principal, in UMKMInput) (*domain.UMKM, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u := &domain.UMKM{UserID: actor.ID, Status: true}
	apply(u, in)
	if actor.Role == domain.RoleAdmin && in.Status != "" {
		u.Status = strings.EqualFold(in.Status, "true")
	}
	if err := s.umkms.Create(ctx, u); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, listingKey)
	return u, nil
}

func (s *UMKMService) Update(ctx context.Context, actor domain.Principal, id int64, in UMKMInput) (*domain.UMKM, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := s.umkms.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	apply(u, in)
	if actor.Role == domain.RoleAdmin && in.Status != "" {
		u.Status = strings.EqualFold(in.Status, "true")
	}
	if err := s.umkms.Update(ctx, u); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, listingKey)
	return u, nil
}

func apply(u *domain.UMKM, in UMKMInput) {
	u.Nama = strings.TrimSpace(in.Nama)
	u.Kategori = strings.TrimSpace(in.Kategori)
	u.Deskripsi = in.Deskripsi
	u.Alamat = in.Alamat
	u.NoKontak = strings.TrimSpace(in.NoKontak)
	u.NPWP = in.NPWP
	u.JamBuka = in.JamBuka
	if in.FotoUMKM != "" {
		u.FotoUMKM = in.FotoUMKM
	}
	if in.Dokumen != "" {
		u.Dokumen = in.Dokumen
	}
}

func (s *UMKMService) Delete(ctx context.Context, id int64) error {
	if err := s.umkms.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, listingKey)
	return nil
}

func (s *UMKMService) Detail(ctx context.Context, id int64) (*domain.UMKM, error) {
	u, err := s.umkms.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if u.Products == nil {
		u.Products = []domain.Product{}
	}
	return u, nil
}

// Inactive lists deactivated storefronts. When scoped to one user an empty
// result is reported as not found.
func (s *UMKMService) Inactive(ctx context.Context, userID *int64) ([]domain.UMKM, error) {
	us, err := s.umkms.ListInactive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userID != nil && len(us) == 0 {
		return nil, fmt.Errorf("%w: no inactive umkm for this user", domain.ErrNotFound)
	}
	return us, nil
}

func (s *UMKMService) DeleteInactive(ctx context.Context, id, userID int64) (*domain.UMKM, error) {
	u, err := s.umkms.DeleteInactive(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, listingKey)
	return u, nil
}

func (s *UMKMService) SetStatus(ctx context.Context, id int64, status string) (*domain.UMKM, error) {
	var active bool
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "true", "1":
		active = true
	case "false", "0":
	default:
		return nil, fmt.Errorf("%w: status must be true or false", domain.ErrInvalidInput)
	}
	u, err := s.umkms.SetStatus(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, listingKey)
	return u, nil
}
