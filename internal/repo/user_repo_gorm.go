package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"umkm-marketplace/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "no_hp = ?", phone).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("no_hp = ? AND id <> ?", phone, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepo) Update(ctx context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	fields := map[string]any{}
	if p.Phone != nil {
		fields["no_hp"] = *p.Phone
	}
	if p.PasswordHash != nil {
		fields["password"] = *p.PasswordHash
	}
	if p.Role != nil {
		fields["role"] = *p.Role
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isDupKey(res.Error) {
			return nil, domain.ErrConflict
		}
		return nil, res.Error
	}
	if err := settle(res, rowExists(ctx, r.db, &domain.User{}, id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("suspended", suspended)
	return settle(res, rowExists(ctx, r.db, &domain.User{}, id))
}

// IsSuspended reads the flag straight from the table; callers rely on it
// never being served from a cache.
func (r *UserRepo) IsSuspended(ctx context.Context, id int64) (bool, error) {
	var row struct{ Suspended bool }
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("suspended").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		return false, notFound(err)
	}
	return row.Suspended, nil
}

func (r *UserRepo) RecordLogin(ctx context.Context, id int64, log string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"log": log, "timestamp": at}).Error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
