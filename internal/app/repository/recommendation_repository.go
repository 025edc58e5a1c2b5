package repository

import (
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
)

type RecommendationRepository interface {
	Create(recommendation *model.Recommendation) error
	FindByProductID(productID uint) ([]model.Recommendation, error)
	CountByProductID(productID uint) (int64, error)
	Delete(productID, recommendedProductID uint) error
}

type recommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) Create(recommendation *model.Recommendation) error {
	logger.Debug("Creating recommendation", map[string]interface{}{
		"product_id":             recommendation.ProductID,
		"recommended_product_id": recommendation.RecommendedProductID,
	})

	if err := r.db.Create(recommendation).Error; err != nil {
		logger.Error("Failed to create recommendation", err, map[string]interface{}{
			"product_id": recommendation.ProductID,
		})
		return err
	}
	return nil
}

func (r *recommendationRepository) FindByProductID(productID uint) ([]model.Recommendation, error) {
	var recommendations []model.Recommendation
	err := r.db.
		Preload("RecommendedProduct").
		Where("product_id = ?", productID).
		Order("display_order ASC, id ASC").
		Find(&recommendations).Error
	if err != nil {
		logger.Error("Failed to find recommendations", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return recommendations, nil
}

func (r *recommendationRepository) CountByProductID(productID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Recommendation{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count recommendations", err, map[string]interface{}{
			"product_id": productID,
		})
		return 0, err
	}
	return count, nil
}

func (r *recommendationRepository) Delete(productID, recommendedProductID uint) error {
	result := r.db.
		Where("product_id = ? AND recommended_product_id = ?", productID, recommendedProductID).
		Delete(&model.Recommendation{})
	if result.Error != nil {
		logger.Error("Failed to delete recommendation", result.Error, map[string]interface{}{
			"product_id":             productID,
			"recommended_product_id": recommendedProductID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
