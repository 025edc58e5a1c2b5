package model

import (
	"time"

	"gorm.io/gorm"
)

// Shop holds the per-shop OAuth credential obtained at install time.
type Shop struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Domain        string         `gorm:"uniqueIndex;not null" json:"domain"`
	AccessToken   string         `gorm:"not null" json:"-"`
	Scope         string         `json:"scope"`
	InstalledAt   time.Time      `json:"installed_at"`
	UninstalledAt *time.Time     `json:"uninstalled_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Shop) TableName() string {
	return "shops"
}

// OAuthState is the durable fallback for the install flow's one-time state
// when redis is unavailable. One pending flow per shop.
type OAuthState struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ShopDomain string    `gorm:"uniqueIndex;not null" json:"shop_domain"`
	State      string    `gorm:"not null" json:"-"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (OAuthState) TableName() string {
	return "oauth_states"
}
