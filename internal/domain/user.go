package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts only the two roles the platform knows about.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone        string    `gorm:"column:no_hp;uniqueIndex;size:32;not null" json:"no_hp"`
	PasswordHash string    `gorm:"column:password;size:100;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:USER" json:"role"`
	Suspended    bool      `gorm:"not null;default:false" json:"suspended"`
	Log          string    `gorm:"size:191" json:"log"`
	Timestamp    time.Time `json:"timestamp"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserPatch carries the optional fields of a profile update; nil means unchanged.
type UserPatch struct {
	Phone        *string
	PasswordHash *string
	Role         *Role
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, p UserPatch) (*User, error)
	Delete(ctx context.Context, id int64) error
	SetSuspended(ctx context.Context, id int64, suspended bool) error
	IsSuspended(ctx context.Context, id int64) (bool, error)
	RecordLogin(ctx context.Context, id int64, log string, at time.Time) error
}
