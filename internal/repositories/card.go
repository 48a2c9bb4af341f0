package repositories

import (
	"errors"
	"fmt"

	"splitbuy/internal/models"

	"gorm.io/gorm"
)

var ErrCardNotFound = errors.New("card not found")

// CardRepository stores tokenized payout cards.
type CardRepository interface {
	Create(card *models.PayoutCard) error
	GetByID(id, userID uint) (*models.PayoutCard, error)
	ListByUser(userID uint) ([]models.PayoutCard, error)
	Delete(id, userID uint) (int64, error)
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(card *models.PayoutCard) error {
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetByID(id, userID uint) (*models.PayoutCard, error) {
	var card models.PayoutCard
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) ListByUser(userID uint) ([]models.PayoutCard, error) {
	var cards []models.PayoutCard
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&cards).Error
	return cards, err
}

func (r *cardRepository) Delete(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PayoutCard{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete card: %w", result.Error)
	}
	return result.RowsAffected, nil
}
