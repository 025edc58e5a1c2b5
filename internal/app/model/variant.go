package model

import (
	"time"

	"gorm.io/gorm"
)

// Variant is a priced, stocked realization of one option combination for one
// product. CombinationKey is the canonical, order-independent serialization
// of the option set and is unique per (product_id, combination_key) — two
// selections map to the same variant iff their keys match.
//
// ShopifyVariantID starts null and is filled in exactly once, by the sync
// service, the first time the variant is needed at checkout.
type Variant struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	ProductID        uint           `gorm:"uniqueIndex:idx_variants_product_key;not null" json:"product_id"`
	CombinationKey   string         `gorm:"uniqueIndex:idx_variants_product_key;not null" json:"combination_key"`
	Price            float64        `gorm:"default:0" json:"price"`
	CompareAtPrice   *float64       `json:"compare_at_price"`
	Cost             *float64       `json:"cost"`
	SKU              string         `json:"sku"`
	StockQuantity    int            `gorm:"default:0" json:"stock_quantity"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	ShopifyVariantID *string        `gorm:"index" json:"shopify_variant_id"`
	ImageURL         string         `json:"image_url"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product         `gorm:"foreignKey:ProductID" json:"-"`
	Options []VariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"variant_options,omitempty"`
}

func (Variant) TableName() string {
	return "variants"
}

// VariantOption records one (attribute, value) assignment of a variant. The
// full option set of a variant reconstructs the selection that produced its
// combination key: exactly one row per attribute active at generation time.
type VariantOption struct {
	ID               uint `gorm:"primarykey" json:"id"`
	VariantID        uint `gorm:"index;not null" json:"variant_id"`
	AttributeID      uint `gorm:"not null" json:"attribute_id"`
	AttributeValueID uint `gorm:"not null" json:"attribute_value_id"`

	Attribute      Attribute      `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
	AttributeValue AttributeValue `gorm:"foreignKey:AttributeValueID" json:"attribute_value,omitempty"`
}

func (VariantOption) TableName() string {
	return "variant_options"
}
