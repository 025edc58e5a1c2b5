package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
)

type VariantController struct {
	variantService service.VariantService
	syncService    service.SyncService
	exportService  service.ExportService
}

func NewVariantController(
	variantService service.VariantService,
	syncService service.SyncService,
	exportService service.ExportService,
) *VariantController {
	return &VariantController{
		variantService: variantService,
		syncService:    syncService,
		exportService:  exportService,
	}
}

// GetVariants lists a product's variants with their options
// GET /api/v1/products/:id/variants
func (ctrl *VariantController) GetVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := ctrl.variantService.GetProductVariants(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch variants", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to fetch variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"count":    len(variants),
	})
}

type generateVariantsRequest struct {
	Mode           string            `json:"mode" binding:"required"`
	SelectedValues map[uint][]uint   `json:"selected_values" binding:"required"`
}

// GenerateVariants generates the combination matrix for a product
// POST /api/v1/products/:id/variants/generate
func (ctrl *VariantController) GenerateVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req generateVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	result, err := ctrl.variantService.GenerateVariants(productID, service.ReconcileMode(req.Mode), req.SelectedValues)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidReconcileMode):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Mode must be replace or merge")
		case errors.Is(err, service.ErrNoValuesSelected), errors.Is(err, service.ErrNoCombinations):
			apperrors.BadRequest(c, apperrors.AttributeNoValues, "No attribute values selected")
		case errors.Is(err, service.ErrBatchAllFailed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   apperrors.BatchAllFailed,
				"result":  result,
			})
		default:
			log.Error("Variant generation failed", err, map[string]interface{}{
				"product_id": productID,
			})
			apperrors.InternalError(c, "Variant generation failed")
		}
		return
	}

	log.Info("Variants generated", map[string]interface{}{
		"product_id": productID,
		"created":    result.Created,
		"unchanged":  result.Unchanged,
		"removed":    result.Removed,
		"failed":     result.Failed,
	})
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

type createVariantRequest struct {
	Combination service.Combination `json:"combination" binding:"required"`
}

// CreateVariant creates a single variant from an explicit combination
// POST /api/v1/products/:id/variants
func (ctrl *VariantController) CreateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req createVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	variant, err := ctrl.variantService.CreateVariant(productID, req.Combination)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrVariantAlreadyExists):
			apperrors.Conflict(c, apperrors.VariantAlreadyExists, "A variant with this combination already exists")
		case errors.Is(err, service.ErrNoCombinations):
			apperrors.BadRequest(c, apperrors.VariantNoOptions, "Combination must not be empty")
		default:
			log.Error("Manual variant creation failed", err, map[string]interface{}{
				"product_id": productID,
			})
			apperrors.InternalError(c, "Failed to create variant")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"variant": variant})
}

type bulkUpdateRequest struct {
	Variants []service.VariantUpdate `json:"variants" binding:"required"`
}

// BulkUpdate applies field updates across variants
// PUT /api/v1/products/:id/variants
func (ctrl *VariantController) BulkUpdate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	result, err := ctrl.variantService.BulkUpdate(productID, req.Variants)
	ctrl.respondBatch(c, log, result, err, "updated")
}

type bulkDeleteRequest struct {
	VariantIDs []uint `json:"variant_ids" binding:"required"`
}

// BulkDelete removes variants
// DELETE /api/v1/products/:id/variants
func (ctrl *VariantController) BulkDelete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	result, err := ctrl.variantService.BulkDelete(productID, req.VariantIDs)
	ctrl.respondBatch(c, log, result, err, "deleted")
}

// SyncVariants materializes unmaterialized variants on Shopify
// POST /api/v1/products/:id/variants/sync
func (ctrl *VariantController) SyncVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.syncService.SyncProduct(c.Request.Context(), productID)
	if err != nil && errors.Is(err, service.ErrProductNoPlatformID) {
		apperrors.BadRequest(c, apperrors.ProductNoPlatform, "Product is not linked to a Shopify product")
		return
	}
	ctrl.respondBatch(c, log, result, err, "synced")
}

// ForceResync clears stored Shopify variant ids and re-materializes
// POST /api/v1/products/:id/variants/force-resync
func (ctrl *VariantController) ForceResync(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.syncService.ForceResync(c.Request.Context(), productID)
	if err != nil && errors.Is(err, service.ErrProductNoPlatformID) {
		apperrors.BadRequest(c, apperrors.ProductNoPlatform, "Product is not linked to a Shopify product")
		return
	}
	ctrl.respondBatch(c, log, result, err, "synced")
}

// ExportVariants streams the variant matrix as an xlsx workbook
// GET /api/v1/products/:id/variants/export
func (ctrl *VariantController) ExportVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, filename, err := ctrl.exportService.ExportVariants(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Variant export failed", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to export variants")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to stream export", err, map[string]interface{}{
			"product_id": productID,
		})
	}
}

func (ctrl *VariantController) respondBatch(c *gin.Context, log *logger.Logger, result *service.BatchResult, err error, verb string) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrNoCombinations):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Request must contain at least one item")
		case errors.Is(err, service.ErrBatchAllFailed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   apperrors.BatchAllFailed,
				verb:      0,
				"failed":  result.Failed,
				"errors":  result.Errors,
			})
		default:
			log.Error("Batch operation failed", err, nil)
			apperrors.InternalError(c, "Batch operation failed")
		}
		return
	}

	response := gin.H{
		"success": true,
		verb:      result.Succeeded,
		"failed":  result.Failed,
	}
	if len(result.Errors) > 0 {
		response["errors"] = result.Errors
		response["error"] = apperrors.BatchPartialFailure
	}
	c.JSON(http.StatusOK, response)
}
