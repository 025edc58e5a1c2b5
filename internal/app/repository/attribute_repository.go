package repository

import (
	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
)

type AttributeRepository interface {
	Create(attribute *model.Attribute) error
	FindAll() ([]model.Attribute, error)
	FindByID(id uint) (*model.Attribute, error)
	Update(attribute *model.Attribute) error
	Delete(id uint) error
	SetPrimary(id uint) error
	CreateValue(value *model.AttributeValue) error
	FindValueByID(id uint) (*model.AttributeValue, error)
	FindValuesByAttributeID(attributeID uint) ([]model.AttributeValue, error)
	UpdateValue(value *model.AttributeValue) error
	DeleteValue(id uint) error
	ClearDefaultValues(attributeID uint) error
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) Create(attribute *model.Attribute) error {
	logger.Debug("Creating attribute", map[string]interface{}{
		"name": attribute.Name,
		"slug": attribute.Slug,
	})

	if err := r.db.Create(attribute).Error; err != nil {
		logger.Error("Failed to create attribute", err, map[string]interface{}{
			"name": attribute.Name,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindAll() ([]model.Attribute, error) {
	var attributes []model.Attribute
	err := r.db.
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Order("display_order ASC, id ASC").
		Find(&attributes).Error
	if err != nil {
		logger.Error("Failed to find attributes", err)
		return nil, err
	}
	return attributes, nil
}

func (r *attributeRepository) FindByID(id uint) (*model.Attribute, error) {
	var attribute model.Attribute
	err := r.db.
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		First(&attribute, id).Error
	if err != nil {
		logger.Error("Failed to find attribute by ID", err, map[string]interface{}{
			"attribute_id": id,
		})
		return nil, err
	}
	return &attribute, nil
}

func (r *attributeRepository) Update(attribute *model.Attribute) error {
	logger.Debug("Updating attribute", map[string]interface{}{
		"attribute_id": attribute.ID,
	})

	if err := r.db.Save(attribute).Error; err != nil {
		logger.Error("Failed to update attribute", err, map[string]interface{}{
			"attribute_id": attribute.ID,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) Delete(id uint) error {
	logger.Debug("Deleting attribute", map[string]interface{}{
		"attribute_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).Delete(&model.AttributeValue{}).Error; err != nil {
			logger.Error("Failed to delete attribute values", err, map[string]interface{}{
				"attribute_id": id,
			})
			return err
		}
		if err := tx.Delete(&model.Attribute{}, id).Error; err != nil {
			logger.Error("Failed to delete attribute", err, map[string]interface{}{
				"attribute_id": id,
			})
			return err
		}
		return nil
	})
}

// SetPrimary atomically clears any other primary flag and sets the new one.
// This is the only code path allowed to mutate is_primary.
func (r *attributeRepository) SetPrimary(id uint) error {
	logger.Debug("Setting primary attribute", map[string]interface{}{
		"attribute_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Attribute{}).
			Where("is_primary = ?", true).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		result := tx.Model(&model.Attribute{}).
			Where("id = ?", id).
			Update("is_primary", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *attributeRepository) CreateValue(value *model.AttributeValue) error {
	logger.Debug("Creating attribute value", map[string]interface{}{
		"attribute_id": value.AttributeID,
		"value":        value.Value,
	})

	if err := r.db.Create(value).Error; err != nil {
		logger.Error("Failed to create attribute value", err, map[string]interface{}{
			"attribute_id": value.AttributeID,
			"value":        value.Value,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindValueByID(id uint) (*model.AttributeValue, error) {
	var value model.AttributeValue
	if err := r.db.First(&value, id).Error; err != nil {
		logger.Error("Failed to find attribute value", err, map[string]interface{}{
			"value_id": id,
		})
		return nil, err
	}
	return &value, nil
}

func (r *attributeRepository) FindValuesByAttributeID(attributeID uint) ([]model.AttributeValue, error) {
	var values []model.AttributeValue
	err := r.db.
		Where("attribute_id = ?", attributeID).
		Order("display_order ASC, id ASC").
		Find(&values).Error
	if err != nil {
		logger.Error("Failed to find attribute values", err, map[string]interface{}{
			"attribute_id": attributeID,
		})
		return nil, err
	}
	return values, nil
}

func (r *attributeRepository) UpdateValue(value *model.AttributeValue) error {
	if err := r.db.Save(value).Error; err != nil {
		logger.Error("Failed to update attribute value", err, map[string]interface{}{
			"value_id": value.ID,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) DeleteValue(id uint) error {
	if err := r.db.Delete(&model.AttributeValue{}, id).Error; err != nil {
		logger.Error("Failed to delete attribute value", err, map[string]interface{}{
			"value_id": id,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) ClearDefaultValues(attributeID uint) error {
	return r.db.Model(&model.AttributeValue{}).
		Where("attribute_id = ? AND is_default = ?", attributeID, true).
		Update("is_default", false).Error
}
