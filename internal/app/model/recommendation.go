package model

import (
	"time"
)

// Recommendation is an ordered association from a product to a recommended
// product. The display cap is enforced at persistence time by the service,
// not left to client-side slicing.
type Recommendation struct {
	ID                   uint      `gorm:"primarykey" json:"id"`
	ProductID            uint      `gorm:"uniqueIndex:idx_recommendation_pair;not null" json:"product_id"`
	RecommendedProductID uint      `gorm:"uniqueIndex:idx_recommendation_pair;not null" json:"recommended_product_id"`
	DisplayOrder         int       `gorm:"default:0" json:"display_order"`
	CreatedAt            time.Time `json:"created_at"`

	RecommendedProduct Product `gorm:"foreignKey:RecommendedProductID" json:"recommended_product,omitempty"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
