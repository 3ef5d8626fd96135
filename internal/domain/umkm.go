package domain

import "context"

// UMKM is a storefront owned by a single user. Status false means the
// storefront has been deactivated by an administrator.
type UMKM struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:id_user;index;not null" json:"id_user"`
	Nama      string    `gorm:"size:128;not null" json:"nama"`
	Kategori  string    `gorm:"size:64;not null" json:"kategori"`
	Deskripsi string    `gorm:"type:text" json:"deskripsi"`
	Alamat    string    `gorm:"size:255" json:"alamat"`
	NoKontak  string    `gorm:"column:no_kontak;size:32" json:"no_kontak"`
	NPWP      string    `gorm:"column:npwp;size:32" json:"npwp"`
	JamBuka   string    `gorm:"column:jam_buka;size:64" json:"jam_buka"`
	FotoUMKM  string    `gorm:"column:foto_umkm;size:255" json:"foto_umkm"`
	Dokumen   string    `gorm:"size:255" json:"dokumen"`
	Status    bool      `gorm:"column:status_umkm;not null;default:true" json:"status_umkm"`
	Products  []Product `gorm:"foreignKey:UMKMID;constraint:OnDelete:CASCADE" json:"products"`
}

func (UMKM) TableName() string { return "umkm" }

// ResourceState is the slice of a storefront or product that access checks read.
type ResourceState struct {
	OwnerID int64
	Active  bool
}

type UMKMRepository interface {
	Create(ctx context.Context, u *UMKM) error
	FindByID(ctx context.Context, id int64, withProducts bool) (*UMKM, error)
	List(ctx context.Context) ([]UMKM, error)
	ListByUser(ctx context.Context, userID int64) ([]UMKM, error)
	// ListInactive returns deactivated storefronts, optionally limited to one owner.
	ListInactive(ctx context.Context, userID *int64) ([]UMKM, error)
	Update(ctx context.Context, u *UMKM) error
	Delete(ctx context.Context, id int64) error
	DeleteInactive(ctx context.Context, id, userID int64) (*UMKM, error)
	SetStatus(ctx context.Context, id int64, active bool) (*UMKM, error)
	OwnerAndStatus(ctx context.Context, id int64) (ResourceState, error)
}
