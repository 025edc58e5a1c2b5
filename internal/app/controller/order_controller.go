package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jasher/unlimited-options-backend/internal/app/service"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
)

// OrderController proxies the dashboard's order widgets to Shopify.
type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// GetOrderCount returns the store's total order count
// GET /api/v1/orders/count
func (ctrl *OrderController) GetOrderCount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	count, err := ctrl.orderService.GetOrderCount(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch order count", err, nil)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ShopifyAPIError, "Failed to fetch order count")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// GetRecentOrders returns the most recent orders
// GET /api/v1/orders/recent?limit=
func (ctrl *OrderController) GetRecentOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, err := ctrl.orderService.GetRecentOrders(c.Request.Context(), limit)
	if err != nil {
		log.Error("Failed to fetch recent orders", err, nil)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.ShopifyAPIError, "Failed to fetch recent orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
