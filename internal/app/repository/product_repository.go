package repository

import (
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	Upsert(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByShopifyProductID(shopifyProductID string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	ReplaceAttributeLinks(productID uint, attributeIDs []uint) error
	FindAttributeLinks(productID uint) ([]model.ProductAttribute, error)
	SetDefaultValue(productID, attributeID uint, valueID *uint) error
	DeleteAll() error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product", map[string]interface{}{
		"shopify_product_id": product.ShopifyProductID,
		"title":              product.Title,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"shopify_product_id": product.ShopifyProductID,
		})
		return err
	}
	return nil
}

// Upsert inserts a mirrored product or refreshes its catalog fields when the
// Shopify product is already registered.
func (r *productRepository) Upsert(product *model.Product) error {
	logger.Debug("Upserting product", map[string]interface{}{
		"shopify_product_id": product.ShopifyProductID,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shopify_product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "handle", "image_url", "updated_at"}),
	}).Create(product).Error
	if err != nil {
		logger.Error("Failed to upsert product", err, map[string]interface{}{
			"shopify_product_id": product.ShopifyProductID,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("title ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Attributes.Attribute.Values").
		First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByShopifyProductID(shopifyProductID string) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Where("shopify_product_id = ?", shopifyProductID).
		First(&product).Error
	if err != nil {
		logger.Error("Failed to find product by Shopify ID", err, map[string]interface{}{
			"shopify_product_id": shopifyProductID,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

// ReplaceAttributeLinks swaps the set of attributes assigned to a product.
func (r *productRepository) ReplaceAttributeLinks(productID uint, attributeIDs []uint) error {
	logger.Debug("Replacing product attribute links", map[string]interface{}{
		"product_id":      productID,
		"attribute_count": len(attributeIDs),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductAttribute{}).Error; err != nil {
			return err
		}
		if len(attributeIDs) == 0 {
			return nil
		}

		links := make([]model.ProductAttribute, 0, len(attributeIDs))
		for _, attributeID := range attributeIDs {
			links = append(links, model.ProductAttribute{
				ProductID:   productID,
				AttributeID: attributeID,
			})
		}
		return tx.Create(&links).Error
	})
}

func (r *productRepository) FindAttributeLinks(productID uint) ([]model.ProductAttribute, error) {
	var links []model.ProductAttribute
	err := r.db.
		Preload("Attribute.Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Preload("Attribute").
		Preload("DefaultValue").
		Where("product_id = ?", productID).
		Find(&links).Error
	if err != nil {
		logger.Error("Failed to find product attribute links", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return links, nil
}

func (r *productRepository) SetDefaultValue(productID, attributeID uint, valueID *uint) error {
	result := r.db.Model(&model.ProductAttribute{}).
		Where("product_id = ? AND attribute_id = ?", productID, attributeID).
		Update("default_value_id", valueID)
	if result.Error != nil {
		logger.Error("Failed to set product default value", result.Error, map[string]interface{}{
			"product_id":   productID,
			"attribute_id": attributeID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll removes every mirrored product. Used by the GDPR shop-redact
// handler when a store's data must be purged.
func (r *productRepository) DeleteAll() error {
	logger.Warn("Deleting all mirrored products", nil)
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Product{}).Error
}
