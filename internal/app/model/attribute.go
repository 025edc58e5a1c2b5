package model

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Attribute is a merchant-defined option axis (e.g. "Color").
// At most one attribute may be flagged primary; the primary attribute drives
// recommendation-image selection on the storefront.
type Attribute struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	IsPrimary    bool           `gorm:"default:false" json:"is_primary"`
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Values []AttributeValue `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE" json:"values,omitempty"`
}

func (Attribute) TableName() string {
	return "attributes"
}

// AttributeValue is one concrete choice under an attribute (e.g. "Red").
// At most one value per attribute may be the default.
type AttributeValue struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	AttributeID  uint           `gorm:"uniqueIndex:idx_attribute_value_slug;not null" json:"attribute_id"`
	Value        string         `gorm:"not null" json:"value"`
	Slug         string         `gorm:"uniqueIndex:idx_attribute_value_slug;not null" json:"slug"`
	ImageURL     string         `json:"image_url"`
	IsDefault    bool           `gorm:"default:false" json:"is_default"`
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AttributeValue) TableName() string {
	return "attribute_values"
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a display name into a URL-safe slug. Slugs are the
// uniqueness discriminator for attributes and their values.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
