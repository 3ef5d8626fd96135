package repo

import (
	"context"

	"gorm.io/gorm"

	"umkm-marketplace/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProductRepo) ListByUMKM(ctx context.Context, umkmID int64) ([]domain.Product, error) {
	var ps []domain.Product
	err := r.db.WithContext(ctx).Where("id_umkm = ?", umkmID).Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", p.ID).
		Select("kode_produk", "nama_produk", "deskripsi", "harga", "masa_berlaku", "foto_produk", "is_publik").
		Updates(p)
	return settle(res, rowExists(ctx, r.db, &domain.Product{}, p.ID))
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) SetPublished(ctx context.Context, id int64, published bool) (*domain.Product, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Update("is_publik", published)
	if err := settle(res, rowExists(ctx, r.db, &domain.Product{}, id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// OwnerAndStatus joins through the storefront: a product is owned by the
// storefront's owner and is only as active as its storefront.
func (r *ProductRepo) OwnerAndStatus(ctx context.Context, id int64) (domain.ResourceState, error) {
	var row struct {
		IDUser     int64 `gorm:"column:id_user"`
		StatusUMKM bool  `gorm:"column:status_umkm"`
	}
	err := r.db.WithContext(ctx).Table("produk AS p").
		Select("u.id_user", "u.status_umkm").
		Joins("JOIN umkm u ON p.id_umkm = u.id").
		Where("p.id = ?", id).
		Take(&row).Error
	if err != nil {
		return domain.ResourceState{}, notFound(err)
	}
	return domain.ResourceState{OwnerID: row.IDUser, Active: row.StatusUMKM}, nil
}
