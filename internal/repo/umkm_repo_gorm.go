package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"umkm-marketplace/internal/domain"
)

type UMKMRepo struct{ db *gorm.DB }

func NewUMKMRepo(db *gorm.DB) *UMKMRepo { return &UMKMRepo{db: db} }

func (r *UMKMRepo) Create(ctx context.Context, u *domain.UMKM) error {
	return r.db.WithContext(ctx).Omit("Products").Create(u).Error
}

func (r *UMKMRepo) FindByID(ctx context.Context, id int64, withProducts bool) (*domain.UMKM, error) {
	q := r.db.WithContext(ctx)
	if withProducts {
		q = q.Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}
	var u domain.UMKM
	if err := q.First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UMKMRepo) List(ctx context.Context) ([]domain.UMKM, error) {
	var us []domain.UMKM
	err := r.db.WithContext(ctx).Order("id").Find(&us).Error
	return us, err
}

func (r *UMKMRepo) ListByUser(ctx context.Context, userID int64) ([]domain.UMKM, error) {
	var us []domain.UMKM
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id_user = ?", userID).Order("id").Find(&us).Error
	return us, err
}

func (r *UMKMRepo) ListInactive(ctx context.Context, userID *int64) ([]domain.UMKM, error) {
	q := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("status_umkm = ?", false)
	if userID != nil {
		q = q.Where("id_user = ?", *userID)
	}
	var us []domain.UMKM
	err := q.Order("id").Find(&us).Error
	return us, err
}

// Update writes every editable column, zero values included.
func (r *UMKMRepo) Update(ctx context.Context, u *domain.UMKM) error {
	res := r.db.WithContext(ctx).Model(&domain.UMKM{}).Where("id = ?", u.ID).
		Select("nama", "kategori", "deskripsi", "alamat", "no_kontak", "npwp", "jam_buka", "foto_umkm", "dokumen", "status_umkm").
		Updates(u)
	return settle(res, rowExists(ctx, r.db, &domain.UMKM{}, u.ID))
}

func (r *UMKMRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.UMKM{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UMKMRepo) DeleteInactive(ctx context.Context, id, userID int64) (*domain.UMKM, error) {
	var out domain.UMKM
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&out, "id = ? AND id_user = ? AND status_umkm = ?", id, userID, false).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&domain.UMKM{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UMKMRepo) SetStatus(ctx context.Context, id int64, active bool) (*domain.UMKM, error) {
	res := r.db.WithContext(ctx).Model(&domain.UMKM{}).Where("id = ?", id).Update("status_umkm", active)
	if err := settle(res, rowExists(ctx, r.db, &domain.UMKM{}, id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id, false)
}

func (r *UMKMRepo) OwnerAndStatus(ctx context.Context, id int64) (domain.ResourceState, error) {
	var row struct {
		IDUser     int64 `gorm:"column:id_user"`
		StatusUMKM bool  `gorm:"column:status_umkm"`
	}
	err := r.db.WithContext(ctx).Model(&domain.UMKM{}).
		Select("id_user", "status_umkm").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return domain.ResourceState{}, notFound(err)
	}
	return domain.ResourceState{OwnerID: row.IDUser, Active: row.StatusUMKM}, nil
}
