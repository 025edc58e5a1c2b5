package service

import (
	"errors"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAttributeNotFound      = errors.New("attribute not found")
	ErrAttributeValueNotFound = errors.New("attribute value not found")
	ErrAttributeNameRequired  = errors.New("attribute name is required")
)

// AttributeInput carries create/update fields for an attribute.
type AttributeInput struct {
	Name         string `json:"name" binding:"required"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

// AttributeValueInput carries create fields for a value.
type AttributeValueInput struct {
	Value        string `json:"value" binding:"required"`
	ImageURL     string `json:"image_url"`
	IsDefault    bool   `json:"is_default"`
	DisplayOrder int    `json:"display_order"`
}

// AttributeValueUpdate is a field-mask update for a value: only non-nil
// fields mutate the row.
type AttributeValueUpdate struct {
	Value        *string `json:"value"`
	ImageURL     *string `json:"image_url"`
	IsDefault    *bool   `json:"is_default"`
	DisplayOrder *int    `json:"display_order"`
}

type AttributeService interface {
	CreateAttribute(input AttributeInput) (*model.Attribute, error)
	GetAttributes() ([]model.Attribute, error)
	GetAttribute(id uint) (*model.Attribute, error)
	UpdateAttribute(id uint, input AttributeInput) (*model.Attribute, error)
	DeleteAttribute(id uint) error
	// SetPrimary flips the primary flag to the given attribute, clearing any
	// sibling. It is the only operation allowed to mutate is_primary.
	SetPrimary(id uint) error
	AddValue(attributeID uint, input AttributeValueInput) (*model.AttributeValue, error)
	UpdateValue(id uint, update AttributeValueUpdate) (*model.AttributeValue, error)
	DeleteValue(id uint) error
}

type attributeService struct {
	attributeRepo repository.AttributeRepository
}

func NewAttributeService(attributeRepo repository.AttributeRepository) AttributeService {
	return &attributeService{attributeRepo: attributeRepo}
}

func (s *attributeService) CreateAttribute(input AttributeInput) (*model.Attribute, error) {
	if input.Name == "" {
		return nil, ErrAttributeNameRequired
	}

	attribute := model.Attribute{
		Name:         input.Name,
		Slug:         model.Slugify(input.Name),
		DisplayOrder: input.DisplayOrder,
	}
	if err := s.attributeRepo.Create(&attribute); err != nil {
		return nil, err
	}

	if input.IsPrimary {
		if err := s.attributeRepo.SetPrimary(attribute.ID); err != nil {
			return nil, err
		}
		attribute.IsPrimary = true
	}
	return &attribute, nil
}

func (s *attributeService) GetAttributes() ([]model.Attribute, error) {
	return s.attributeRepo.FindAll()
}

func (s *attributeService) GetAttribute(id uint) (*model.Attribute, error) {
	attribute, err := s.attributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	return attribute, nil
}

func (s *attributeService) UpdateAttribute(id uint, input AttributeInput) (*model.Attribute, error) {
	attribute, err := s.attributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		attribute.Name = input.Name
		attribute.Slug = model.Slugify(input.Name)
	}
	attribute.DisplayOrder = input.DisplayOrder

	if err := s.attributeRepo.Update(attribute); err != nil {
		return nil, err
	}

	// Primary promotion goes through the invariant-owning operation.
	if input.IsPrimary && !attribute.IsPrimary {
		if err := s.attributeRepo.SetPrimary(id); err != nil {
			return nil, err
		}
		attribute.IsPrimary = true
	}
	return attribute, nil
}

func (s *attributeService) DeleteAttribute(id uint) error {
	if _, err := s.attributeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttributeNotFound
		}
		return err
	}
	return s.attributeRepo.Delete(id)
}

func (s *attributeService) SetPrimary(id uint) error {
	err := s.attributeRepo.SetPrimary(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAttributeNotFound
	}
	return err
}

func (s *attributeService) AddValue(attributeID uint, input AttributeValueInput) (*model.AttributeValue, error) {
	if _, err := s.attributeRepo.FindByID(attributeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}

	if input.IsDefault {
		if err := s.attributeRepo.ClearDefaultValues(attributeID); err != nil {
			return nil, err
		}
	}

	value := model.AttributeValue{
		AttributeID:  attributeID,
		Value:        input.Value,
		Slug:         model.Slugify(input.Value),
		ImageURL:     input.ImageURL,
		IsDefault:    input.IsDefault,
		DisplayOrder: input.DisplayOrder,
	}
	if err := s.attributeRepo.CreateValue(&value); err != nil {
		return nil, err
	}
	return &value, nil
}

func (s *attributeService) UpdateValue(id uint, update AttributeValueUpdate) (*model.AttributeValue, error) {
	value, err := s.attributeRepo.FindValueByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeValueNotFound
		}
		return nil, err
	}

	if update.IsDefault != nil && *update.IsDefault && !value.IsDefault {
		if err := s.attributeRepo.ClearDefaultValues(value.AttributeID); err != nil {
			return nil, err
		}
	}

	if update.Value != nil && *update.Value != "" {
		value.Value = *update.Value
		value.Slug = model.Slugify(*update.Value)
	}
	if update.ImageURL != nil {
		value.ImageURL = *update.ImageURL
	}
	if update.IsDefault != nil {
		value.IsDefault = *update.IsDefault
	}
	if update.DisplayOrder != nil {
		value.DisplayOrder = *update.DisplayOrder
	}

	if err := s.attributeRepo.UpdateValue(value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *attributeService) DeleteValue(id uint) error {
	if _, err := s.attributeRepo.FindValueByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttributeValueNotFound
		}
		return err
	}

	logger.Debug("Deleting attribute value", map[string]interface{}{
		"value_id": id,
	})
	return s.attributeRepo.DeleteValue(id)
}
