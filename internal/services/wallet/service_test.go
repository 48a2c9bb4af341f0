package wallet

import (
	"context"
	"errors"
	"testing"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/services/paystack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) GetProfile(userID uint) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockWalletRepo) GetProfileByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockWalletRepo) DebitAvailable(userID uint, amount float64) error {
	return m.Called(userID, amount).Error(0)
}

func (m *MockWalletRepo) CreditByEmail(email string, amount float64) (int64, error) {
	args := m.Called(email, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepo) CreateTransaction(tx *models.Transaction) error {
	return m.Called(tx).Error(0)
}

func (m *MockWalletRepo) UpdateTransactionStatus(reference, status string) (int64, error) {
	args := m.Called(reference, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepo) GetTransactionByReference(reference string) (*models.Transaction, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockWalletRepo) ListTransactions(userID uint, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockWalletRepo) RecordWalletTransaction(reference, email string, amount float64) (bool, error) {
	args := m.Called(reference, email, amount)
	return args.Bool(0), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) InitializePayment(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paystack.InitializeResponse), args.Error(1)
}

func (m *MockGateway) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	args := m.Called(reference)
	return args.Bool(0), args.Error(1)
}

func profileWith(balance, holds float64) *models.User {
	return &models.User{
		Model:         gorm.Model{ID: 1},
		Email:         "a@test.com",
		WalletBalance: balance,
		Holds:         holds,
	}
}

func newService(repo *MockWalletRepo, gateway *MockGateway) Service {
	return NewService(repo, gateway, Config{}, &NoopMetricsCollector{}, "http://app.test")
}

func TestGetBalance(t *testing.T) {
	repo := new(MockWalletRepo)
	gateway := new(MockGateway)
	repo.On("GetProfile", uint(1)).Return(profileWith(150, 40), nil)

	s := newService(repo, gateway)
	balance, err := s.GetBalance(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, float64(150), balance.WalletBalance)
	assert.Equal(t, float64(40), balance.Holds)
	assert.Equal(t, float64(110), balance.Available)
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("below minimum is rejected", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)

		s := newService(repo, gateway)
		_, err := s.Deposit(ctx, "a@test.com", 50)
		assert.ErrorIs(t, err, ErrDepositBelowMinimum)
		gateway.AssertNotCalled(t, "InitializePayment", mock.Anything)
	})

	t.Run("missing email is rejected", func(t *testing.T) {
		s := newService(new(MockWalletRepo), new(MockGateway))
		_, err := s.Deposit(ctx, "", 20000)
		assert.ErrorIs(t, err, ErrDepositBelowMinimum)
	})

	t.Run("returns the gateway authorization URL", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		gateway.On("InitializePayment", mock.MatchedBy(func(req paystack.InitializeRequest) bool {
			return req.Email == "a@test.com" && req.Amount == 20000
		})).Return(&paystack.InitializeResponse{AuthorizationURL: "http://pay"}, nil)

		s := newService(repo, gateway)
		url, err := s.Deposit(ctx, "a@test.com", 20000)
		assert.NoError(t, err)
		assert.Equal(t, "http://pay", url)
	})
}

func TestFundWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("records a pending transaction before the gateway call", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		repo.On("GetProfile", uint(1)).Return(profileWith(0, 0), nil)
		repo.On("CreateTransaction", mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeDeposit &&
				tx.Status == models.TransactionStatusPending &&
				tx.ReferenceID != ""
		})).Return(nil)
		gateway.On("InitializePayment", mock.Anything).
			Return(&paystack.InitializeResponse{AuthorizationURL: "http://pay"}, nil)

		s := newService(repo, gateway)
		url, err := s.FundWallet(ctx, 1, 200)
		assert.NoError(t, err)
		assert.Equal(t, "http://pay", url)
		repo.AssertExpectations(t)
	})

	t.Run("marks the transaction failed when the gateway errors", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		repo.On("GetProfile", uint(1)).Return(profileWith(0, 0), nil)
		repo.On("CreateTransaction", mock.Anything).Return(nil)
		repo.On("UpdateTransactionStatus", mock.Anything, models.TransactionStatusFailed).Return(int64(1), nil)
		gateway.On("InitializePayment", mock.Anything).Return(nil, paystack.ErrGatewayError)

		s := newService(repo, gateway)
		_, err := s.FundWallet(ctx, 1, 200)
		assert.ErrorIs(t, err, paystack.ErrGatewayError)
		repo.AssertCalled(t, "UpdateTransactionStatus", mock.Anything, models.TransactionStatusFailed)
	})
}

func TestHandleChargeSuccess(t *testing.T) {
	ctx := context.Background()

	t.Run("credits once per reference", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		repo.On("RecordWalletTransaction", "ref", "a@test.com", float64(100)).Return(true, nil)
		repo.On("UpdateTransactionStatus", "ref", models.TransactionStatusCompleted).Return(int64(1), nil)

		s := newService(repo, gateway)
		credited, err := s.HandleChargeSuccess(ctx, "a@test.com", 10000, "ref")
		assert.NoError(t, err)
		assert.True(t, credited)
	})

	t.Run("duplicate delivery is a no-op", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		repo.On("RecordWalletTransaction", "ref", "a@test.com", float64(100)).Return(false, nil)

		s := newService(repo, gateway)
		credited, err := s.HandleChargeSuccess(ctx, "a@test.com", 10000, "ref")
		assert.NoError(t, err)
		assert.False(t, credited)
		repo.AssertNotCalled(t, "UpdateTransactionStatus", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		s := newService(new(MockWalletRepo), new(MockGateway))

		_, err := s.HandleChargeSuccess(ctx, "", 10000, "ref")
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = s.HandleChargeSuccess(ctx, "a@test.com", 0, "ref")
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = s.HandleChargeSuccess(ctx, "a@test.com", 10000, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestPayGroupShare(t *testing.T) {
	ctx := context.Background()

	t.Run("pays from wallet when available balance covers the share", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		repo.On("GetProfile", uint(1)).Return(profileWith(300, 50), nil)
		repo.On("DebitAvailable", uint(1), float64(200)).Return(nil)
		repo.On("CreateTransaction", mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeEscrow &&
				tx.Status == models.TransactionStatusCompleted &&
				tx.GroupID != nil && *tx.GroupID == 9
		})).Return(nil)

		s := newService(repo, gateway)
		result, err := s.PayGroupShare(ctx, 1, 9, 200)
		assert.NoError(t, err)
		assert.True(t, result.PaidWithWallet)
		assert.Empty(t, result.PaymentURL)
		gateway.AssertNotCalled(t, "InitializePayment", mock.Anything)
	})

	t.Run("holds reduce the spendable balance", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		// 300 in the wallet but 150 held: a 200 share must go to the gateway.
		repo.On("GetProfile", uint(1)).Return(profileWith(300, 150), nil)
		repo.On("CreateTransaction", mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Status == models.TransactionStatusPending
		})).Return(nil)
		gateway.On("InitializePayment", mock.Anything).
			Return(&paystack.InitializeResponse{AuthorizationURL: "http://pay"}, nil)

		s := newService(repo, gateway)
		result, err := s.PayGroupShare(ctx, 1, 9, 200)
		assert.NoError(t, err)
		assert.False(t, result.PaidWithWallet)
		assert.Equal(t, "http://pay", result.PaymentURL)
		repo.AssertNotCalled(t, "DebitAvailable", mock.Anything, mock.Anything)
	})

	t.Run("debit race falls back to hosted checkout", func(t *testing.T) {
		repo := new(MockWalletRepo)
		gateway := new(MockGateway)
		// The snapshot covers the share, but a concurrent debit wins the
		// conditional update; the payment continues through the gateway.
		repo.On("GetProfile", uint(1)).Return(profileWith(300, 0), nil)
		repo.On("DebitAvailable", uint(1), float64(200)).Return(repositories.ErrInsufficientFunds)
		repo.On("CreateTransaction", mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Status == models.TransactionStatusPending
		})).Return(nil)
		gateway.On("InitializePayment", mock.Anything).
			Return(&paystack.InitializeResponse{AuthorizationURL: "http://pay"}, nil)

		s := newService(repo, gateway)
		result, err := s.PayGroupShare(ctx, 1, 9, 200)
		assert.NoError(t, err)
		assert.False(t, result.PaidWithWallet)
		assert.Equal(t, "http://pay", result.PaymentURL)
		repo.AssertExpectations(t)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		s := newService(new(MockWalletRepo), new(MockGateway))
		_, err := s.PayGroupShare(ctx, 1, 9, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestGetTransactionHistory(t *testing.T) {
	repo := new(MockWalletRepo)
	gateway := new(MockGateway)
	repo.On("ListTransactions", uint(1), 20, 0).Return([]models.Transaction{}, nil)

	s := newService(repo, gateway)
	// An out-of-range limit falls back to the default page size.
	_, err := s.GetTransactionHistory(context.Background(), 1, 500, 0)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProfileNotFound(t *testing.T) {
	repo := new(MockWalletRepo)
	gateway := new(MockGateway)
	repo.On("GetProfile", uint(42)).Return(nil, repositories.ErrProfileMissing)

	s := newService(repo, gateway)
	_, err := s.GetBalance(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrProfileNotFound))
}
