package service

import (
	"context"

	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/jasher/unlimited-options-backend/pkg/shopify"
)

// OrderService proxies the dashboard's order queries to Shopify. Orders live
// on the platform; nothing is stored locally beyond the stock side effects
// handled by the webhook service.
type OrderService interface {
	GetOrderCount(ctx context.Context) (int, error)
	GetRecentOrders(ctx context.Context, limit int) ([]shopify.Order, error)
}

type orderService struct {
	gateway ShopifyGateway
}

func NewOrderService(gateway ShopifyGateway) OrderService {
	return &orderService{gateway: gateway}
}

func (s *orderService) GetOrderCount(ctx context.Context) (int, error) {
	count, err := s.gateway.GetOrderCount(ctx)
	if err != nil {
		logger.Error("Failed to fetch order count", err, nil)
		return 0, err
	}
	return count, nil
}

func (s *orderService) GetRecentOrders(ctx context.Context, limit int) ([]shopify.Order, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	orders, err := s.gateway.GetRecentOrders(ctx, limit)
	if err != nil {
		logger.Error("Failed to fetch recent orders", err, nil)
		return nil, err
	}
	return orders, nil
}
