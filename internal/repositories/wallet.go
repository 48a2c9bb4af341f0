package repositories

import (
	"errors"
	"fmt"
	"strings"

	"splitbuy/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientFunds     = errors.New("insufficient available balance")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrDuplicateReference    = errors.New("payment reference already recorded")
	ErrProfileMissing        = errors.New("profile not found")
	ErrInvalidReferenceState = errors.New("transaction reference in unexpected state")
)

// WalletRepository defines wallet-affecting persistence operations. Balance
// mutations are single conditional UPDATEs, never read-then-write, so
// concurrent debits cannot overdraw a profile.
type WalletRepository interface {
	GetProfile(userID uint) (*models.User, error)
	GetProfileByEmail(email string) (*models.User, error)

	// DebitAvailable subtracts amount from wallet_balance only when
	// wallet_balance - holds covers it.
	DebitAvailable(userID uint, amount float64) error
	CreditByEmail(email string, amount float64) (int64, error)

	CreateTransaction(tx *models.Transaction) error
	UpdateTransactionStatus(reference, status string) (int64, error)
	GetTransactionByReference(reference string) (*models.Transaction, error)
	ListTransactions(userID uint, limit, offset int) ([]models.Transaction, error)

	// RecordWalletTransaction inserts the webhook ledger row and credits the
	// wallet in one transaction. Returns false when the reference was
	// already recorded (duplicate webhook delivery).
	RecordWalletTransaction(reference, email string, amount float64) (bool, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &user, nil
}

func (r *walletRepository) GetProfileByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &user, nil
}

func (r *walletRepository) DebitAvailable(userID uint, amount float64) error {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND wallet_balance - holds >= ?", userID, amount).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (r *walletRepository) CreditByEmail(email string, amount float64) (int64, error) {
	result := r.db.Model(&models.User{}).
		Where("email = ?", email).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *walletRepository) CreateTransaction(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) UpdateTransactionStatus(reference, status string) (int64, error) {
	result := r.db.Model(&models.Transaction{}).
		Where("reference_id = ?", reference).
		Update("status", status)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *walletRepository) GetTransactionByReference(reference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.Where("reference_id = ?", reference).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *walletRepository) ListTransactions(userID uint, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&txs).Error
	return txs, err
}

func (r *walletRepository) RecordWalletTransaction(reference, email string, amount float64) (bool, error) {
	var credited bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.WalletTransaction
		err := tx.Where("reference = ?", reference).First(&existing).Error
		if err == nil {
			// Reference already processed, gateway retry.
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.WalletTransaction{
			Reference: reference,
			Email:     email,
			Amount:    amount,
		}).Error; err != nil {
			// The unique index backstops the check above under a
			// duplicate-delivery race.
			if isUniqueViolation(err) {
				return nil
			}
			return err
		}

		result := tx.Model(&models.User{}).
			Where("email = ?", email).
			UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProfileMissing
		}
		credited = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to record wallet transaction: %w", err)
	}
	return credited, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
