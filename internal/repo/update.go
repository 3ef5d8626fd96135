package repo

import (
	"context"

	"gorm.io/gorm"

	"umkm-marketplace/internal/domain"
)

// settle maps a finished UPDATE onto the repository contract. MySQL reports
// changed rows, so rewriting identical values also yields zero; only a row
// that is really absent is ErrNotFound.
func settle(res *gorm.DB, exists func() (bool, error)) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	ok, err := exists()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func rowExists(ctx context.Context, db *gorm.DB, model any, id int64) func() (bool, error) {
	return func() (bool, error) {
		var n int64
		err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error
		return n > 0, err
	}
}
