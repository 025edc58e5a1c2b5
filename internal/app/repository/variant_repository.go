package repository

import (
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantRepository interface {
	// CreateWithOptions inserts a variant and its option rows as one unit.
	// Returns created=false when a variant with the same
	// (product_id, combination_key) already exists — a concurrent insert
	// racing on the unique index resolves as "already exists", not an error.
	CreateWithOptions(variant *model.Variant, options []model.VariantOption) (created bool, err error)
	FindByID(id uint) (*model.Variant, error)
	FindByProductID(productID uint) ([]model.Variant, error)
	FindByKey(productID uint, combinationKey string) (*model.Variant, error)
	FindUnsynced(productID uint, limit int) ([]model.Variant, error)
	FindActive(productID uint, limit int) ([]model.Variant, error)
	FindByShopifyVariantID(shopifyVariantID string) (*model.Variant, error)
	FindExistingKeys(productID uint) (map[string]bool, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	SetShopifyVariantID(id uint, shopifyVariantID string) error
	ClearShopifyVariantIDs(productID uint) error
	SetStock(id uint, quantity int) error
	Delete(ids []uint) error
	DeleteByProductID(productID uint) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) CreateWithOptions(variant *model.Variant, options []model.VariantOption) (bool, error) {
	logger.Debug("Creating variant with options", map[string]interface{}{
		"product_id":      variant.ProductID,
		"combination_key": variant.CombinationKey,
		"option_count":    len(options),
	})

	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "combination_key"}},
			DoNothing: true,
		}).Create(variant)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race or key already present; leave the existing row alone.
			return nil
		}
		created = true

		for i := range options {
			options[i].VariantID = variant.ID
		}
		// The transaction guarantees a variant row is never left option-less:
		// an option insert failure rolls the variant back too.
		return tx.Create(&options).Error
	})
	if err != nil {
		logger.Error("Failed to create variant with options", err, map[string]interface{}{
			"product_id":      variant.ProductID,
			"combination_key": variant.CombinationKey,
		})
		return false, err
	}
	return created, nil
}

func (r *variantRepository) withOptions() *gorm.DB {
	return r.db.
		Preload("Options.Attribute").
		Preload("Options.AttributeValue")
}

func (r *variantRepository) FindByID(id uint) (*model.Variant, error) {
	var variant model.Variant
	err := r.withOptions().Preload("Product").First(&variant, id).Error
	if err != nil {
		logger.Error("Failed to find variant by ID", err, map[string]interface{}{
			"variant_id": id,
		})
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByProductID(productID uint) ([]model.Variant, error) {
	var variants []model.Variant
	err := r.withOptions().
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		Find(&variants).Error
	if err != nil {
		logger.Error("Failed to find variants by product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) FindByKey(productID uint, combinationKey string) (*model.Variant, error) {
	var variant model.Variant
	err := r.db.
		Where("product_id = ? AND combination_key = ?", productID, combinationKey).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindUnsynced(productID uint, limit int) ([]model.Variant, error) {
	var variants []model.Variant
	query := r.withOptions().
		Where("product_id = ? AND shopify_variant_id IS NULL AND is_active = ?", productID, true).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&variants).Error; err != nil {
		logger.Error("Failed to find unsynced variants", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) FindActive(productID uint, limit int) ([]model.Variant, error) {
	var variants []model.Variant
	query := r.withOptions().
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&variants).Error; err != nil {
		logger.Error("Failed to find active variants", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) FindByShopifyVariantID(shopifyVariantID string) (*model.Variant, error) {
	var variant model.Variant
	err := r.db.
		Where("shopify_variant_id = ?", shopifyVariantID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindExistingKeys(productID uint) (map[string]bool, error) {
	var keys []string
	err := r.db.Model(&model.Variant{}).
		Where("product_id = ?", productID).
		Pluck("combination_key", &keys).Error
	if err != nil {
		logger.Error("Failed to fetch existing combination keys", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	existing := make(map[string]bool, len(keys))
	for _, key := range keys {
		existing[key] = true
	}
	return existing, nil
}

func (r *variantRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	result := r.db.Model(&model.Variant{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update variant fields", result.Error, map[string]interface{}{
			"variant_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *variantRepository) SetShopifyVariantID(id uint, shopifyVariantID string) error {
	logger.Debug("Persisting Shopify variant ID", map[string]interface{}{
		"variant_id":         id,
		"shopify_variant_id": shopifyVariantID,
	})

	return r.db.Model(&model.Variant{}).
		Where("id = ?", id).
		Update("shopify_variant_id", shopifyVariantID).Error
}

func (r *variantRepository) ClearShopifyVariantIDs(productID uint) error {
	logger.Debug("Clearing Shopify variant IDs", map[string]interface{}{
		"product_id": productID,
	})

	return r.db.Model(&model.Variant{}).
		Where("product_id = ?", productID).
		Update("shopify_variant_id", nil).Error
}

func (r *variantRepository) SetStock(id uint, quantity int) error {
	return r.db.Model(&model.Variant{}).
		Where("id = ?", id).
		Update("stock_quantity", quantity).Error
}

func (r *variantRepository) Delete(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	logger.Debug("Deleting variants", map[string]interface{}{
		"count": len(ids),
	})

	// Hard delete: a soft-deleted row would keep occupying the unique
	// (product_id, combination_key) slot and block regeneration.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variant_id IN ?", ids).Delete(&model.VariantOption{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Variant{}, ids).Error
	})
}

func (r *variantRepository) DeleteByProductID(productID uint) error {
	logger.Debug("Deleting all variants for product", map[string]interface{}{
		"product_id": productID,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&model.Variant{}).
			Where("product_id = ?", productID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("variant_id IN ?", ids).Delete(&model.VariantOption{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("product_id = ?", productID).Delete(&model.Variant{}).Error
	})
}
