package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"umkm-marketplace/internal/domain"
)

type ProductService struct {
	products domain.ProductRepository
	umkms    domain.UMKMRepository
}

func NewProductService(products domain.ProductRepository, umkms domain.UMKMRepository) *ProductService {
	return &ProductService{products: products, umkms: umkms}
}

// ProductInput holds raw form values. Empty strings leave a field unchanged
// on update.
type ProductInput struct {
	UMKMID      string `form:"id_umkm"`
	Kode        string `form:"kode_produk"`
	Nama        string `form:"nama_produk"`
	Deskripsi   string `form:"deskripsi"`
	Harga       string `form:"harga"`
	MasaBerlaku string `form:"masa_berlaku"`
	Foto        string `form:"foto_produk"`
	IsPublik    string `form:"is_publik"`
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	umkmID, err := strconv.ParseInt(strings.TrimSpace(in.UMKMID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: field 'id_umkm' must be an integer", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Nama) == "" {
		return nil, fmt.Errorf("%w: field 'nama_produk' is required", domain.ErrInvalidInput)
	}
	if _, err := s.umkms.FindByID(ctx, umkmID, false); err != nil {
		return nil, err
	}
	p := &domain.Product{UMKMID: umkmID}
	if err := applyProduct(p, in); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProduct(p, in); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func applyProduct(p *domain.Product, in ProductInput) error {
	if v := strings.TrimSpace(in.Kode); v != "" {
		p.Kode = v
	}
	if v := strings.TrimSpace(in.Nama); v != "" {
		p.Nama = v
	}
	if in.Deskripsi != "" {
		p.Deskripsi = in.Deskripsi
	}
	if v := strings.TrimSpace(in.Harga); v != "" {
		harga, err := strconv.ParseInt(v, 10, 64)
		if err != nil || harga < 0 {
			return fmt.Errorf("%w: field 'harga' must be a non-negative integer", domain.ErrInvalidInput)
		}
		p.Harga = harga
	}
	if in.MasaBerlaku != "" {
		p.MasaBerlaku = in.MasaBerlaku
	}
	if in.Foto != "" {
		p.Foto = in.Foto
	}
	if in.IsPublik != "" {
		pub, err := parseFlag(in.IsPublik)
		if err != nil {
			return err
		}
		p.IsPublik = pub
	}
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func (s *ProductService) ListByUMKM(ctx context.Context, umkmID int64) ([]domain.Product, error) {
	ps, err := s.products.ListByUMKM(ctx, umkmID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []domain.Product{}
	}
	return ps, nil
}

func (s *ProductService) SetPublished(ctx context.Context, id int64, raw string) (*domain.Product, error) {
	pub, err := parseFlag(raw)
	if err != nil {
		return nil, err
	}
	return s.products.SetPublished(ctx, id, pub)
}

func parseFlag(raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: expected true or false, got %q", domain.ErrInvalidInput, raw)
	}
	return b, nil
}
