package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product mirrors a product record in the Shopify store. ShopifyProductID is
// the join key to the platform (a GID like "gid://shopify/Product/123") and
// must be unique.
type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	ShopifyProductID string         `gorm:"uniqueIndex;not null" json:"shopify_product_id"`
	Title            string         `gorm:"not null" json:"title"`
	Handle           string         `json:"handle"`
	ImageURL         string         `json:"image_url"`
	IsRing           bool           `gorm:"default:false" json:"is_ring"`
	RingSizes        pq.StringArray `gorm:"type:text[]" json:"ring_sizes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Attributes []ProductAttribute `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"attributes,omitempty"`
	Variants   []Variant          `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductAttribute links a product to an attribute it uses, optionally
// carrying a per-product default value selection.
type ProductAttribute struct {
	ID             uint  `gorm:"primarykey" json:"id"`
	ProductID      uint  `gorm:"uniqueIndex:idx_product_attribute;not null" json:"product_id"`
	AttributeID    uint  `gorm:"uniqueIndex:idx_product_attribute;not null" json:"attribute_id"`
	DefaultValueID *uint `json:"default_value_id"`

	Attribute    Attribute       `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
	DefaultValue *AttributeValue `gorm:"foreignKey:DefaultValueID" json:"default_value,omitempty"`
}

func (ProductAttribute) TableName() string {
	return "product_attributes"
}
