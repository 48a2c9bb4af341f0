package auth

import (
	"testing"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	args := m.Called(userID, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepo) GetTokenVersion(userID uint) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestRegister(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("defaults unknown roles to buyer", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleBuyer && u.Email == "a@test.com"
		})).Return(nil)

		svc := NewService(repo)
		user, access, refresh, err := svc.Register(RegisterRequest{
			Email:    "a@test.com",
			Password: "password123",
			Role:     models.RoleAdmin,
		})

		assert.NoError(t, err)
		assert.Equal(t, models.RoleBuyer, user.Role)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		repo.AssertExpectations(t)
	})

	t.Run("keeps vendor role", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("Create", mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleVendor
		})).Return(nil)

		svc := NewService(repo)
		user, _, _, err := svc.Register(RegisterRequest{
			Email:    "v@test.com",
			Password: "password123",
			Role:     models.RoleVendor,
		})

		assert.NoError(t, err)
		assert.Equal(t, models.RoleVendor, user.Role)
	})

	t.Run("hashes the password", func(t *testing.T) {
		repo := new(MockUserRepo)
		var stored string
		repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(0).(*models.User).Password
		}).Return(nil)

		svc := NewService(repo)
		_, _, _, err := svc.Register(RegisterRequest{Email: "h@test.com", Password: "password123"})

		assert.NoError(t, err)
		assert.NotEqual(t, "password123", stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("password123")))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		repo := new(MockUserRepo)
		svc := NewService(repo)

		_, _, _, err := svc.Register(RegisterRequest{Email: "a@test.com", Password: "short"})

		assert.ErrorIs(t, err, ErrWeakPassword)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("maps duplicate email", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("Create", mock.Anything).Return(repositories.ErrEmailTaken)

		svc := NewService(repo)
		_, _, _, err := svc.Register(RegisterRequest{Email: "dup@test.com", Password: "password123"})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("issues tokens on valid credentials", func(t *testing.T) {
		user := &models.User{
			Email:        "a@test.com",
			Password:     hashPassword(t, "password123"),
			Role:         models.RoleBuyer,
			TokenVersion: 3,
		}
		user.ID = 7

		repo := new(MockUserRepo)
		repo.On("GetByEmail", "a@test.com").Return(user, nil)

		svc := NewService(repo)
		got, access, refresh, err := svc.Login("a@test.com", "password123")

		assert.NoError(t, err)
		assert.Equal(t, uint(7), got.ID)
		assert.NotEmpty(t, refresh)

		_, claims, err := utils.ParseToken(access)
		assert.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, 3, claims.TokenVersion)
	})

	t.Run("wrong password", func(t *testing.T) {
		user := &models.User{Email: "a@test.com", Password: hashPassword(t, "password123")}

		repo := new(MockUserRepo)
		repo.On("GetByEmail", "a@test.com").Return(user, nil)

		svc := NewService(repo)
		_, _, _, err := svc.Login("a@test.com", "nope-nope")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", "ghost@test.com").Return(nil, repositories.ErrUserNotFound)

		svc := NewService(repo)
		_, _, _, err := svc.Login("ghost@test.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	issue := func(t *testing.T, user *models.User) string {
		t.Helper()
		_, refresh, err := utils.GenerateTokens(&models.UserClaims{
			UserID:       user.ID,
			Email:        user.Email,
			Role:         user.Role,
			TokenVersion: user.TokenVersion,
		})
		assert.NoError(t, err)
		return refresh
	}

	t.Run("rotates a valid refresh token", func(t *testing.T) {
		user := &models.User{Email: "a@test.com", Role: models.RoleBuyer, TokenVersion: 2}
		user.ID = 5

		repo := new(MockUserRepo)
		repo.On("GetByID", uint(5)).Return(user, nil)

		svc := NewService(repo)
		access, refresh, err := svc.RefreshTokens(issue(t, user))

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("rejects stale token version", func(t *testing.T) {
		user := &models.User{Email: "a@test.com", Role: models.RoleBuyer, TokenVersion: 2}
		user.ID = 5
		stale := issue(t, user)

		current := *user
		current.TokenVersion = 3

		repo := new(MockUserRepo)
		repo.On("GetByID", uint(5)).Return(&current, nil)

		svc := NewService(repo)
		_, _, err := svc.RefreshTokens(stale)

		assert.EqualError(t, err, "token version mismatch")
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := NewService(new(MockUserRepo))
		_, _, err := svc.RefreshTokens("not-a-token")
		assert.Error(t, err)
	})
}

func TestLogout(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("IncrementTokenVersion", uint(9)).Return(nil)

	svc := NewService(repo)
	assert.NoError(t, svc.Logout(9))
	repo.AssertExpectations(t)
}

func TestChangePassword(t *testing.T) {
	t.Run("rotates hash and bumps token version", func(t *testing.T) {
		user := &models.User{Password: hashPassword(t, "old-password")}
		user.ID = 4

		repo := new(MockUserRepo)
		repo.On("GetByID", uint(4)).Return(user, nil)
		repo.On("UpdatePassword", uint(4), mock.MatchedBy(func(hashed string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hashed), []byte("new-password")) == nil
		})).Return(nil)
		repo.On("IncrementTokenVersion", uint(4)).Return(nil)

		svc := NewService(repo)
		assert.NoError(t, svc.ChangePassword(4, "old-password", "new-password"))
		repo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		user := &models.User{Password: hashPassword(t, "old-password")}
		user.ID = 4

		repo := new(MockUserRepo)
		repo.On("GetByID", uint(4)).Return(user, nil)

		svc := NewService(repo)
		err := svc.ChangePassword(4, "wrong", "new-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})

	t.Run("weak replacement", func(t *testing.T) {
		svc := NewService(new(MockUserRepo))
		assert.ErrorIs(t, svc.ChangePassword(4, "old-password", "tiny"), ErrWeakPassword)
	})
}
