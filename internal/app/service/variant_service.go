package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrVariantNotFound      = errors.New("variant not found")
	ErrVariantAlreadyExists = errors.New("variant with this combination already exists")
	ErrNoCombinations       = errors.New("no combinations to reconcile")
	ErrNoValuesSelected     = errors.New("no attribute values selected")
	ErrInvalidReconcileMode = errors.New("invalid reconcile mode")
	ErrBatchAllFailed       = errors.New("every item in the batch failed")
)

// ReconcileMode selects how generated combinations merge with a product's
// existing variant set.
type ReconcileMode string

const (
	// ModeReplace deletes every existing variant before inserting fresh ones.
	ModeReplace ReconcileMode = "replace"
	// ModeMerge keeps existing variants untouched and only inserts missing
	// combinations.
	ModeMerge ReconcileMode = "merge"
)

// maxReportedErrors bounds the per-item error details returned from batch
// operations. The counts are always exact; only the detail list is capped.
const maxReportedErrors = 10

// BatchError is one reported item failure inside a batch result.
type BatchError struct {
	VariantID      uint   `json:"variant_id,omitempty"`
	CombinationKey string `json:"combination_key,omitempty"`
	Message        string `json:"message"`
}

// ReconcileResult reports what a reconciliation pass did.
type ReconcileResult struct {
	Created   int          `json:"created"`
	Unchanged int          `json:"unchanged"`
	Removed   int          `json:"removed"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors,omitempty"`
}

// BatchResult reports a bulk update/delete/sync outcome.
type BatchResult struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors,omitempty"`
}

// VariantUpdate is a field-mask update for one variant: only non-nil fields
// mutate the row.
type VariantUpdate struct {
	ID             uint     `json:"id" binding:"required"`
	Price          *float64 `json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price"`
	Cost           *float64 `json:"cost"`
	SKU            *string  `json:"sku"`
	StockQuantity  *int     `json:"stock_quantity"`
	IsActive       *bool    `json:"is_active"`
	ImageURL       *string  `json:"image_url"`
}

type VariantService interface {
	GetVariant(id uint) (*model.Variant, error)
	GetProductVariants(productID uint) ([]model.Variant, error)
	GenerateVariants(productID uint, mode ReconcileMode, selectedValues map[uint][]uint) (*ReconcileResult, error)
	Reconcile(productID uint, combinations []Combination, mode ReconcileMode) (*ReconcileResult, error)
	CreateVariant(productID uint, combination Combination) (*model.Variant, error)
	BulkUpdate(productID uint, updates []VariantUpdate) (*BatchResult, error)
	BulkDelete(productID uint, variantIDs []uint) (*BatchResult, error)
}

type variantService struct {
	variantRepo   repository.VariantRepository
	productRepo   repository.ProductRepository
	attributeRepo repository.AttributeRepository
	batchSize     int
}

func NewVariantService(
	variantRepo repository.VariantRepository,
	productRepo repository.ProductRepository,
	attributeRepo repository.AttributeRepository,
	batchSize int,
) VariantService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &variantService{
		variantRepo:   variantRepo,
		productRepo:   productRepo,
		attributeRepo: attributeRepo,
		batchSize:     batchSize,
	}
}

func (s *variantService) GetVariant(id uint) (*model.Variant, error) {
	variant, err := s.variantRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return variant, nil
}

func (s *variantService) GetProductVariants(productID uint) ([]model.Variant, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.variantRepo.FindByProductID(productID)
}

// GenerateVariants builds the Cartesian product of the product's attributes
// restricted to the merchant's selected values and reconciles it against the
// existing variant set. selectedValues maps attribute id to the chosen value
// ids; attributes absent from the map are excluded from generation.
func (s *variantService) GenerateVariants(productID uint, mode ReconcileMode, selectedValues map[uint][]uint) (*ReconcileResult, error) {
	logger.Info("Generating variants", map[string]interface{}{
		"product_id":      productID,
		"mode":            string(mode),
		"attribute_count": len(selectedValues),
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	links, err := s.productRepo.FindAttributeLinks(productID)
	if err != nil {
		return nil, err
	}

	// Restrict each linked attribute to the selected values, preserving the
	// attribute link order and each attribute's value display order.
	attributes := make([]model.Attribute, 0, len(links))
	for _, link := range links {
		valueIDs, ok := selectedValues[link.AttributeID]
		if !ok || len(valueIDs) == 0 {
			continue
		}
		wanted := make(map[uint]bool, len(valueIDs))
		for _, id := range valueIDs {
			wanted[id] = true
		}

		attribute := link.Attribute
		selected := make([]model.AttributeValue, 0, len(valueIDs))
		for _, value := range attribute.Values {
			if wanted[value.ID] {
				selected = append(selected, value)
			}
		}
		if len(selected) == 0 {
			continue
		}
		attribute.Values = selected
		attributes = append(attributes, attribute)
	}

	if len(attributes) == 0 {
		logger.Warn("No attribute values selected for generation", map[string]interface{}{
			"product_id": productID,
		})
		return nil, ErrNoValuesSelected
	}

	combinations := GenerateCombinations(attributes)
	return s.Reconcile(productID, combinations, mode)
}

// Reconcile persists generated combinations against the product's existing
// variant set. Replace wipes the set first; Merge leaves existing variants
// untouched and only inserts missing keys. Each insertion is independent:
// one combination's failure never aborts the rest.
func (s *variantService) Reconcile(productID uint, combinations []Combination, mode ReconcileMode) (*ReconcileResult, error) {
	if mode != ModeReplace && mode != ModeMerge {
		return nil, ErrInvalidReconcileMode
	}
	if len(combinations) == 0 {
		return nil, ErrNoCombinations
	}

	result := &ReconcileResult{}

	existing, err := s.variantRepo.FindExistingKeys(productID)
	if err != nil {
		return nil, err
	}

	if mode == ModeReplace {
		if err := s.variantRepo.DeleteByProductID(productID); err != nil {
			logger.Error("Failed to clear variants for replace", err, map[string]interface{}{
				"product_id": productID,
			})
			return nil, err
		}
		result.Removed = len(existing)
		existing = map[string]bool{}
	}

	for _, combination := range combinations {
		key := CombinationKey(combination)
		if existing[key] {
			result.Unchanged++
			continue
		}

		variant := model.Variant{
			ProductID:      productID,
			CombinationKey: key,
			IsActive:       true,
		}
		options := make([]model.VariantOption, len(combination))
		for i, entry := range combination {
			options[i] = model.VariantOption{
				AttributeID:      entry.AttributeID,
				AttributeValueID: entry.AttributeValueID,
			}
		}

		created, err := s.variantRepo.CreateWithOptions(&variant, options)
		if err != nil {
			result.Failed++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, BatchError{
					CombinationKey: key,
					Message:        err.Error(),
				})
			}
			continue
		}
		if created {
			result.Created++
		} else {
			// A concurrent reconcile inserted the same key first.
			result.Unchanged++
		}
	}

	logger.Info("Reconcile complete", map[string]interface{}{
		"product_id": productID,
		"mode":       string(mode),
		"created":    result.Created,
		"unchanged":  result.Unchanged,
		"removed":    result.Removed,
		"failed":     result.Failed,
	})

	if result.Failed > 0 && result.Created == 0 && result.Unchanged == 0 {
		return result, ErrBatchAllFailed
	}
	return result, nil
}

// CreateVariant is the manual single-combination path. Unlike Reconcile it
// rejects an existing combination key with an explicit error instead of
// silently skipping it.
func (s *variantService) CreateVariant(productID uint, combination Combination) (*model.Variant, error) {
	if len(combination) == 0 {
		return nil, ErrNoCombinations
	}
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	key := CombinationKey(combination)
	if _, err := s.variantRepo.FindByKey(productID, key); err == nil {
		logger.Warn("Combination already exists", map[string]interface{}{
			"product_id":      productID,
			"combination_key": key,
		})
		return nil, ErrVariantAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	variant := model.Variant{
		ProductID:      productID,
		CombinationKey: key,
		IsActive:       true,
	}
	options := make([]model.VariantOption, len(combination))
	for i, entry := range combination {
		options[i] = model.VariantOption{
			AttributeID:      entry.AttributeID,
			AttributeValueID: entry.AttributeValueID,
		}
	}

	created, err := s.variantRepo.CreateWithOptions(&variant, options)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost a race with a concurrent create between the pre-check and
		// the insert.
		return nil, ErrVariantAlreadyExists
	}
	return s.variantRepo.FindByID(variant.ID)
}

// BulkUpdate applies field-mask updates concurrently, batchSize items at a
// time. Individual failures are tallied and never abort the batch; the call
// as a whole fails only when zero items succeeded.
func (s *variantService) BulkUpdate(productID uint, updates []VariantUpdate) (*BatchResult, error) {
	if len(updates) == 0 {
		return nil, ErrNoCombinations
	}

	logger.Info("Bulk updating variants", map[string]interface{}{
		"product_id": productID,
		"count":      len(updates),
		"batch_size": s.batchSize,
	})

	result := &BatchResult{}
	var mu sync.Mutex
	for start := 0; start < len(updates); start += s.batchSize {
		end := start + s.batchSize
		if end > len(updates) {
			end = len(updates)
		}

		var wg sync.WaitGroup
		for _, update := range updates[start:end] {
			wg.Add(1)
			go func(update VariantUpdate) {
				defer wg.Done()
				err := s.applyUpdate(productID, update)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					if len(result.Errors) < maxReportedErrors {
						result.Errors = append(result.Errors, BatchError{
							VariantID: update.ID,
							Message:   err.Error(),
						})
					}
					return
				}
				result.Succeeded++
			}(update)
		}
		wg.Wait()
	}

	if result.Succeeded == 0 {
		return result, ErrBatchAllFailed
	}
	return result, nil
}

func (s *variantService) applyUpdate(productID uint, update VariantUpdate) error {
	variant, err := s.variantRepo.FindByID(update.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return err
	}
	if variant.ProductID != productID {
		return fmt.Errorf("%w: variant %d does not belong to product %d", ErrVariantNotFound, update.ID, productID)
	}

	fields := map[string]interface{}{}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.CompareAtPrice != nil {
		fields["compare_at_price"] = *update.CompareAtPrice
	}
	if update.Cost != nil {
		fields["cost"] = *update.Cost
	}
	if update.SKU != nil {
		fields["sku"] = *update.SKU
	}
	if update.StockQuantity != nil {
		fields["stock_quantity"] = *update.StockQuantity
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}
	if update.ImageURL != nil {
		fields["image_url"] = *update.ImageURL
	}
	if len(fields) == 0 {
		return nil
	}
	return s.variantRepo.UpdateFields(update.ID, fields)
}

// BulkDelete removes the given variants, skipping ids that do not belong to
// the product.
func (s *variantService) BulkDelete(productID uint, variantIDs []uint) (*BatchResult, error) {
	if len(variantIDs) == 0 {
		return nil, ErrNoCombinations
	}

	logger.Info("Bulk deleting variants", map[string]interface{}{
		"product_id": productID,
		"count":      len(variantIDs),
	})

	result := &BatchResult{}
	var mu sync.Mutex
	deletable := make([]uint, 0, len(variantIDs))
	for start := 0; start < len(variantIDs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(variantIDs) {
			end = len(variantIDs)
		}

		var wg sync.WaitGroup
		for _, id := range variantIDs[start:end] {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				variant, err := s.variantRepo.FindByID(id)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					result.Failed++
					if len(result.Errors) < maxReportedErrors {
						result.Errors = append(result.Errors, BatchError{VariantID: id, Message: ErrVariantNotFound.Error()})
					}
				case variant.ProductID != productID:
					result.Failed++
					if len(result.Errors) < maxReportedErrors {
						result.Errors = append(result.Errors, BatchError{VariantID: id, Message: "variant does not belong to product"})
					}
				default:
					deletable = append(deletable, id)
				}
			}(id)
		}
		wg.Wait()
	}

	if len(deletable) > 0 {
		if err := s.variantRepo.Delete(deletable); err != nil {
			return nil, err
		}
		result.Succeeded = len(deletable)
	}

	if result.Succeeded == 0 {
		return result, ErrBatchAllFailed
	}
	return result, nil
}
