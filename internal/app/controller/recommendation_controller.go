package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

type RecommendationController struct {
	recommendationService service.RecommendationService
}

func NewRecommendationController(recommendationService service.RecommendationService) *RecommendationController {
	return &RecommendationController{
		recommendationService: recommendationService,
	}
}

// GetRecommendations lists a product's recommendations in display order
// GET /api/v1/products/:id/recommendations
func (ctrl *RecommendationController) GetRecommendations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recommendations, err := ctrl.recommendationService.GetRecommendations(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch recommendations", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "Failed to fetch recommendations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

type addRecommendationRequest struct {
	RecommendedProductID uint `json:"recommended_product_id" binding:"required"`
	DisplayOrder         int  `json:"display_order"`
}

// AddRecommendation links a recommended product
// POST /api/v1/products/:id/recommendations
func (ctrl *RecommendationController) AddRecommendation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	recommendation, err := ctrl.recommendationService.AddRecommendation(productID, req.RecommendedProductID, req.DisplayOrder)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSelfRecommendation):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A product cannot recommend itself")
		case errors.Is(err, service.ErrRecommendationLimit):
			apperrors.Conflict(c, apperrors.RecommendationLimitHit, "Recommendation limit reached")
		case errors.Is(err, service.ErrRecommendationExists):
			apperrors.Conflict(c, apperrors.RecommendationExists, "This product is already recommended")
		default:
			log.Error("Failed to add recommendation", err, map[string]interface{}{
				"product_id": productID,
			})
			apperrors.InternalError(c, "Failed to add recommendation")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recommendation": recommendation})
}

// RemoveRecommendation unlinks a recommended product
// DELETE /api/v1/products/:id/recommendations/:recommendedId
func (ctrl *RecommendationController) RemoveRecommendation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recommendedID, ok := parseIDParam(c, "recommendedId")
	if !ok {
		return
	}

	if err := ctrl.recommendationService.RemoveRecommendation(productID, recommendedID); err != nil {
		if errors.Is(err, service.ErrRecommendationNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Recommendation not found")
			return
		}
		log.Error("Failed to remove recommendation", err, map[string]interface{}{
			"product_id":             productID,
			"recommended_product_id": recommendedID,
		})
		apperrors.InternalError(c, "Failed to remove recommendation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
