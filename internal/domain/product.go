package domain

import "context"

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UMKMID      int64  `gorm:"column:id_umkm;index;not null" json:"id_umkm"`
	Kode        string `gorm:"column:kode_produk;size:64" json:"kode_produk"`
	Nama        string `gorm:"column:nama_produk;size:128;not null" json:"nama_produk"`
	Deskripsi   string `gorm:"type:text" json:"deskripsi"`
	Harga       int64  `gorm:"not null;default:0" json:"harga"`
	MasaBerlaku string `gorm:"column:masa_berlaku;size:64" json:"masa_berlaku"`
	Foto        string `gorm:"column:foto_produk;size:255" json:"foto_produk"`
	IsPublik    bool   `gorm:"column:is_publik;not null;default:false" json:"is_publik"`
}

func (Product) TableName() string { return "produk" }

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	ListByUMKM(ctx context.Context, umkmID int64) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	SetPublished(ctx context.Context, id int64, published bool) (*Product, error)
	// OwnerAndStatus reports the owner and active flag of the product's storefront.
	OwnerAndStatus(ctx context.Context, id int64) (ResourceState, error)
}
