package repositories

import (
	"fmt"
	"time"

	"splitbuy/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository persists dispatched lifecycle notifications.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(userID uint, limit, offset int) ([]models.Notification, error)
	MarkRead(id, userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(userID uint, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(id, userID uint) (int64, error) {
	now := time.Now()
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, userID).
		Update("read_at", &now)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
