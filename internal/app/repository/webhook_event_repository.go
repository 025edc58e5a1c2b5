package repository

import (
	"time"

	"github.com/jasher/unlimited-options-backend/internal/app/model"
	"github.com/jasher/unlimited-options-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	// Seen reports whether a delivery id has already been recorded.
	Seen(eventID string) (bool, error)
	// Record stores a webhook delivery id and reports whether it was seen
	// for the first time. A duplicate delivery returns first=false.
	Record(eventID, topic string) (first bool, err error)
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Seen(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check webhook event", err, map[string]interface{}{
			"event_id": eventID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *webhookEventRepository) Record(eventID, topic string) (bool, error) {
	event := model.WebhookEvent{
		EventID:     eventID,
		Topic:       topic,
		ProcessedAt: time.Now(),
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&event)
	if result.Error != nil {
		logger.Error("Failed to record webhook event", result.Error, map[string]interface{}{
			"event_id": eventID,
			"topic":    topic,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
