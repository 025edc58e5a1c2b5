package repository

import (
	"errors"
	"time"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShopRepository interface {
	Upsert(shop *model.Shop) error
	FindByDomain(domain string) (*model.Shop, error)
	MarkUninstalled(domain string) error
	DeleteByDomain(domain string) error
	// SaveOAuthState persists the pending install state for a shop,
	// replacing any earlier pending flow.
	SaveOAuthState(domain, state string, expiresAt time.Time) error
	// TakeOAuthState reads and deletes the pending state, returning ""
	// when none exists or it expired.
	TakeOAuthState(domain string) (string, error)
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

// Upsert stores a shop credential, refreshing the token on reinstall.
func (r *shopRepository) Upsert(shop *model.Shop) error {
	logger.Debug("Upserting shop", map[string]interface{}{
		"domain": shop.Domain,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "scope", "installed_at", "uninstalled_at", "updated_at"}),
	}).Create(shop).Error
	if err != nil {
		logger.Error("Failed to upsert shop", err, map[string]interface{}{
			"domain": shop.Domain,
		})
		return err
	}
	return nil
}

func (r *shopRepository) FindByDomain(domain string) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.Where("domain = ?", domain).First(&shop).Error; err != nil {
		logger.Error("Failed to find shop", err, map[string]interface{}{
			"domain": domain,
		})
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) MarkUninstalled(domain string) error {
	logger.Info("Marking shop uninstalled", map[string]interface{}{
		"domain": domain,
	})

	now := time.Now()
	return r.db.Model(&model.Shop{}).
		Where("domain = ?", domain).
		Updates(map[string]interface{}{
			"uninstalled_at": &now,
			"access_token":   "",
		}).Error
}

func (r *shopRepository) DeleteByDomain(domain string) error {
	logger.Warn("Deleting shop record", map[string]interface{}{
		"domain": domain,
	})
	return r.db.Where("domain = ?", domain).Delete(&model.Shop{}).Error
}

func (r *shopRepository) SaveOAuthState(domain, state string, expiresAt time.Time) error {
	record := model.OAuthState{
		ShopDomain: domain,
		State:      state,
		ExpiresAt:  expiresAt,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop_domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "expires_at", "created_at"}),
	}).Create(&record).Error
	if err != nil {
		logger.Error("Failed to save oauth state", err, map[string]interface{}{
			"domain": domain,
		})
	}
	return err
}

func (r *shopRepository) TakeOAuthState(domain string) (string, error) {
	var record model.OAuthState
	err := r.db.Where("shop_domain = ?", domain).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	// Single use either way.
	if err := r.db.Delete(&record).Error; err != nil {
		return "", err
	}
	if time.Now().After(record.ExpiresAt) {
		return "", nil
	}
	return record.State, nil
}
