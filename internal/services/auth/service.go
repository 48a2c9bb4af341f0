// Package auth handles registration, login and token lifecycle.
package auth

import (
	"errors"
	"log"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type Service interface {
	Register(req RegisterRequest) (*models.User, string, string, error)
	Login(email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
	GetUserTokenVersion(userID uint) (int, error)
	GetUserByID(userID uint) (*models.User, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{userRepo: userRepo}
}

// Register creates the profile on first authentication. Buyers are the
// default role; admin cannot be self-assigned.
func (s *service) Register(req RegisterRequest) (*models.User, string, string, error) {
	if len(req.Password) < 8 {
		return nil, "", "", ErrWeakPassword
	}

	role := req.Role
	if role != models.RoleVendor {
		role = models.RoleBuyer
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &models.User{
		Email:       req.Email,
		Password:    string(hashed),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, "", "", ErrEmailTaken
		}
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *service) Login(email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("login failed: no user for %s", email)
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: wrong password for user %d", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokenPair(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return s.issueTokenPair(user)
}

// Logout bumps the token version so outstanding tokens stop validating.
func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(userID, string(hashed)); err != nil {
		return err
	}
	// Invalidate outstanding sessions.
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	return s.userRepo.GetTokenVersion(userID)
}

func (s *service) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *service) issueTokenPair(user *models.User) (string, string, error) {
	access, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		Permissions:  models.GetDefaultPermissions(user.Role),
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		log.Printf("error generating tokens for user %d: %v", user.ID, err)
		return "", "", errors.New("error generating tokens")
	}
	return access, refresh, nil
}
