package service

import (
	"context"
	"errors"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNoPlatformID = errors.New("product has no Shopify product id")
)

// ProductUpdate is a field-mask update for a mirrored product.
type ProductUpdate struct {
	Title     *string   `json:"title"`
	ImageURL  *string   `json:"image_url"`
	IsRing    *bool     `json:"is_ring"`
	RingSizes *[]string `json:"ring_sizes"`
}

type ProductService interface {
	GetProducts() ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	// SyncFromShopify pulls the store catalog and upserts a mirrored row per
	// product, returning how many were synced.
	SyncFromShopify(ctx context.Context) (int, error)
	UpdateProduct(id uint, update ProductUpdate) (*model.Product, error)
	SetAttributeLinks(productID uint, attributeIDs []uint) error
	GetAttributeLinks(productID uint) ([]model.ProductAttribute, error)
	SetDefaultValue(productID, attributeID uint, valueID *uint) error
}

type productService struct {
	productRepo repository.ProductRepository
	gateway     ShopifyGateway
}

func NewProductService(productRepo repository.ProductRepository, gateway ShopifyGateway) ProductService {
	return &productService{
		productRepo: productRepo,
		gateway:     gateway,
	}
}

func (s *productService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) SyncFromShopify(ctx context.Context) (int, error) {
	logger.Info("Syncing products from Shopify", nil)

	remote, err := s.gateway.GetProducts(ctx, 250)
	if err != nil {
		logger.Error("Failed to fetch Shopify products", err, nil)
		return 0, err
	}

	synced := 0
	for _, item := range remote {
		product := model.Product{
			ShopifyProductID: item.ID,
			Title:            item.Title,
			Handle:           item.Handle,
			ImageURL:         item.ImageURL,
		}
		if err := s.productRepo.Upsert(&product); err != nil {
			logger.Error("Failed to upsert synced product", err, map[string]interface{}{
				"shopify_product_id": item.ID,
			})
			continue
		}
		synced++
	}

	logger.Info("Product sync complete", map[string]interface{}{
		"fetched": len(remote),
		"synced":  synced,
	})
	return synced, nil
}

func (s *productService) UpdateProduct(id uint, update ProductUpdate) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if update.Title != nil {
		product.Title = *update.Title
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	if update.IsRing != nil {
		product.IsRing = *update.IsRing
	}
	if update.RingSizes != nil {
		product.RingSizes = pq.StringArray(*update.RingSizes)
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) SetAttributeLinks(productID uint, attributeIDs []uint) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.ReplaceAttributeLinks(productID, attributeIDs)
}

func (s *productService) GetAttributeLinks(productID uint) ([]model.ProductAttribute, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.productRepo.FindAttributeLinks(productID)
}

func (s *productService) SetDefaultValue(productID, attributeID uint, valueID *uint) error {
	err := s.productRepo.SetDefaultValue(productID, attributeID, valueID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}
