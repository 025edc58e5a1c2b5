package service

import (
	"errors"
	"strings"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/internal/app/repository"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRecommendationExists   = errors.New("recommendation already exists")
	ErrRecommendationLimit    = errors.New("recommendation limit reached")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrSelfRecommendation     = errors.New("product cannot recommend itself")
)

type RecommendationService interface {
	GetRecommendations(productID uint) ([]model.Recommendation, error)
	// AddRecommendation links a recommended product, enforcing the
	// configured cap at persistence time.
	AddRecommendation(productID, recommendedProductID uint, displayOrder int) (*model.Recommendation, error)
	RemoveRecommendation(productID, recommendedProductID uint) error
}

type recommendationService struct {
	recommendationRepo repository.RecommendationRepository
	productRepo        repository.ProductRepository
	limit              int
}

func NewRecommendationService(
	recommendationRepo repository.RecommendationRepository,
	productRepo repository.ProductRepository,
	limit int,
) RecommendationService {
	if limit <= 0 {
		limit = 2
	}
	return &recommendationService{
		recommendationRepo: recommendationRepo,
		productRepo:        productRepo,
		limit:              limit,
	}
}

func (s *recommendationService) GetRecommendations(productID uint) ([]model.Recommendation, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.recommendationRepo.FindByProductID(productID)
}

func (s *recommendationService) AddRecommendation(productID, recommendedProductID uint, displayOrder int) (*model.Recommendation, error) {
	if productID == recommendedProductID {
		return nil, ErrSelfRecommendation
	}

	for _, id := range []uint{productID, recommendedProductID} {
		if _, err := s.productRepo.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
	}

	count, err := s.recommendationRepo.CountByProductID(productID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.limit) {
		logger.Warn("Recommendation limit reached", map[string]interface{}{
			"product_id": productID,
			"limit":      s.limit,
		})
		return nil, ErrRecommendationLimit
	}

	recommendation := model.Recommendation{
		ProductID:            productID,
		RecommendedProductID: recommendedProductID,
		DisplayOrder:         displayOrder,
	}
	if err := s.recommendationRepo.Create(&recommendation); err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrRecommendationExists
		}
		return nil, err
	}
	return &recommendation, nil
}

func (s *recommendationService) RemoveRecommendation(productID, recommendedProductID uint) error {
	err := s.recommendationRepo.Delete(productID, recommendedProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecommendationNotFound
	}
	return err
}
