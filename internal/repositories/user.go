package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories/cache"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

// UserRepository defines profile persistence operations.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdatePassword(userID uint, hashedPassword string) error
	IncrementTokenVersion(userID uint) error
	GetTokenVersion(userID uint) (int, error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewUserRepository(db *gorm.DB, cacheService *cache.CacheService) UserRepository {
	return &userRepository{db: db, cache: cacheService}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetProfile(context.Background(), id); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CacheProfile(context.Background(), &user); err != nil {
			log.Printf("failed to cache profile %d: %v", user.ID, err)
		}
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	r.invalidate(user.ID, user.Email)
	return nil
}

func (r *userRepository) UpdatePassword(userID uint, hashedPassword string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", result.Error)
	}
	var user models.User
	if err := r.db.First(&user, userID).Error; err == nil {
		r.invalidate(user.ID, user.Email)
	}
	return nil
}

func (r *userRepository) GetTokenVersion(userID uint) (int, error) {
	var version int
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("token_version", &version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get token version: %w", err)
	}
	return version, nil
}

func (r *userRepository) invalidate(userID uint, email string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateProfile(context.Background(), userID, email); err != nil {
		log.Printf("failed to invalidate profile cache %d: %v", userID, err)
	}
}
