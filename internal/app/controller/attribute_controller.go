package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

type AttributeController struct {
	attributeService service.AttributeService
}

func NewAttributeController(attributeService service.AttributeService) *AttributeController {
	return &AttributeController{
		attributeService: attributeService,
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

// GetAttributes returns all attributes with their values
// GET /api/v1/attributes
func (ctrl *AttributeController) GetAttributes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	attributes, err := ctrl.attributeService.GetAttributes()
	if err != nil {
		log.Error("Failed to fetch attributes", err, nil)
		apperrors.InternalError(c, "Failed to fetch attributes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attributes": attributes,
		"count":      len(attributes),
	})
}

// CreateAttribute creates a new attribute
// POST /api/v1/attributes
func (ctrl *AttributeController) CreateAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.AttributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	attribute, err := ctrl.attributeService.CreateAttribute(req)
	if err != nil {
		if errors.Is(err, service.ErrAttributeNameRequired) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Attribute name is required")
			return
		}
		log.Error("Failed to create attribute", err, map[string]interface{}{
			"name": req.Name,
		})
		info := apperrors.ParseError(err, "attribute")
		apperrors.Conflict(c, info.Code, info.Message)
		return
	}

	log.Info("Attribute created", map[string]interface{}{
		"attribute_id": attribute.ID,
		"name":         attribute.Name,
	})
	c.JSON(http.StatusCreated, gin.H{"attribute": attribute})
}

// UpdateAttribute renames an attribute or promotes it to primary
// PUT /api/v1/attributes/:id
func (ctrl *AttributeController) UpdateAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.AttributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	attribute, err := ctrl.attributeService.UpdateAttribute(id, req)
	if err != nil {
		if errors.Is(err, service.ErrAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
			return
		}
		log.Error("Failed to update attribute", err, map[string]interface{}{
			"attribute_id": id,
		})
		info := apperrors.ParseError(err, "attribute")
		apperrors.Conflict(c, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attribute": attribute})
}

// DeleteAttribute deletes an attribute and its values
// DELETE /api/v1/attributes/:id
func (ctrl *AttributeController) DeleteAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.attributeService.DeleteAttribute(id); err != nil {
		if errors.Is(err, service.ErrAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
			return
		}
		log.Error("Failed to delete attribute", err, map[string]interface{}{
			"attribute_id": id,
		})
		apperrors.InternalError(c, "Failed to delete attribute")
		return
	}

	log.Info("Attribute deleted", map[string]interface{}{
		"attribute_id": id,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetPrimary promotes an attribute to the single primary slot
// PUT /api/v1/attributes/:id/primary
func (ctrl *AttributeController) SetPrimary(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.attributeService.SetPrimary(id); err != nil {
		if errors.Is(err, service.ErrAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
			return
		}
		log.Error("Failed to set primary attribute", err, map[string]interface{}{
			"attribute_id": id,
		})
		apperrors.InternalError(c, "Failed to set primary attribute")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddValue adds a value to an attribute
// POST /api/v1/attributes/:id/values
func (ctrl *AttributeController) AddValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.AttributeValueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	value, err := ctrl.attributeService.AddValue(id, req)
	if err != nil {
		if errors.Is(err, service.ErrAttributeNotFound) {
			apperrors.NotFound(c, apperrors.AttributeNotFound, "Attribute not found")
			return
		}
		log.Error("Failed to add attribute value", err, map[string]interface{}{
			"attribute_id": id,
			"value":        req.Value,
		})
		info := apperrors.ParseError(err, "attribute value")
		apperrors.Conflict(c, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"value": value})
}

// UpdateValue updates an attribute value
// PUT /api/v1/attributes/values/:id
func (ctrl *AttributeController) UpdateValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.AttributeValueUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	value, err := ctrl.attributeService.UpdateValue(id, req)
	if err != nil {
		if errors.Is(err, service.ErrAttributeValueNotFound) {
			apperrors.NotFound(c, apperrors.AttributeValueNotFound, "Attribute value not found")
			return
		}
		log.Error("Failed to update attribute value", err, map[string]interface{}{
			"value_id": id,
		})
		info := apperrors.ParseError(err, "attribute value")
		apperrors.Conflict(c, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": value})
}

// DeleteValue deletes an attribute value
// DELETE /api/v1/attributes/values/:id
func (ctrl *AttributeController) DeleteValue(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.attributeService.DeleteValue(id); err != nil {
		if errors.Is(err, service.ErrAttributeValueNotFound) {
			apperrors.NotFound(c, apperrors.AttributeValueNotFound, "Attribute value not found")
			return
		}
		log.Error("Failed to delete attribute value", err, map[string]interface{}{
			"value_id": id,
		})
		apperrors.InternalError(c, "Failed to delete attribute value")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
