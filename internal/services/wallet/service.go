package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/services/paystack"

	"github.com/google/uuid"
)

type service struct {
	repo    repositories.WalletRepository
	gateway Gateway
	config  Config
	metrics MetricsCollector
	appURL  string
}

// NewService creates a new wallet service.
func NewService(
	repo repositories.WalletRepository,
	gateway Gateway,
	config Config,
	metrics MetricsCollector,
	appURL string,
) Service {
	if repo == nil {
		panic("wallet repo is required")
	}
	if gateway == nil {
		panic("payment gateway is required")
	}

	if config.MinDepositMinor == 0 {
		config.MinDepositMinor = DefaultMinDepositMinor
	}
	if config.ProcessingTimeout == 0 {
		config.ProcessingTimeout = DefaultTimeout
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		gateway: gateway,
		config:  config,
		metrics: metrics,
		appURL:  appURL,
	}
}

func (s *service) GetBalance(ctx context.Context, userID uint) (*Balance, error) {
	profile, err := s.repo.GetProfile(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileMissing) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &Balance{
		WalletBalance: profile.WalletBalance,
		Holds:         profile.Holds,
		Available:     profile.AvailableBalance(),
	}, nil
}

// Deposit starts an anonymous hosted top-up session. Amount is in minor
// units and must meet the gateway minimum.
func (s *service) Deposit(ctx context.Context, email string, amountMinor int64) (string, error) {
	if email == "" || amountMinor < s.config.MinDepositMinor {
		return "", ErrDepositBelowMinimum
	}

	resp, err := s.gateway.InitializePayment(ctx, paystack.InitializeRequest{
		Email:       email,
		Amount:      amountMinor,
		CallbackURL: s.appURL + "/wallet",
	})
	if err != nil {
		s.metrics.RecordError("deposit", "gateway")
		return "", err
	}
	return resp.AuthorizationURL, nil
}

// FundWallet starts an authenticated top-up and records the pending deposit
// transaction keyed by a fresh reference.
func (s *service) FundWallet(ctx context.Context, userID uint, amount float64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	amountMinor := int64(amount * MinorUnitsPerMajor)
	if amountMinor < s.config.MinDepositMinor {
		return "", ErrDepositBelowMinimum
	}

	profile, err := s.repo.GetProfile(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileMissing) {
			return "", ErrProfileNotFound
		}
		return "", err
	}

	reference := uuid.NewString()
	if err := s.repo.CreateTransaction(&models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		Amount:      amount,
		Status:      models.TransactionStatusPending,
		ReferenceID: reference,
		Description: "Wallet top-up",
	}); err != nil {
		s.metrics.RecordError("fund_wallet", "transaction")
		return "", ErrTransactionFailed
	}

	resp, err := s.gateway.InitializePayment(ctx, paystack.InitializeRequest{
		Email:       profile.Email,
		Amount:      amountMinor,
		Reference:   reference,
		CallbackURL: s.appURL + "/wallet",
	})
	if err != nil {
		if _, markErr := s.repo.UpdateTransactionStatus(reference, models.TransactionStatusFailed); markErr != nil {
			log.Printf("failed to mark deposit %s failed: %v", reference, markErr)
		}
		s.metrics.RecordError("fund_wallet", "gateway")
		return "", err
	}

	return resp.AuthorizationURL, nil
}

// VerifyDeposit polls the gateway for a reference and completes the pending
// transaction when the charge succeeded. Crediting stays webhook-driven.
func (s *service) VerifyDeposit(ctx context.Context, reference string) (bool, error) {
	ok, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if _, err := s.repo.UpdateTransactionStatus(reference, models.TransactionStatusCompleted); err != nil {
		log.Printf("verified deposit %s but status update failed: %v", reference, err)
	}
	return true, nil
}

// HandleChargeSuccess credits a wallet from a verified webhook event. The
// webhook ledger's unique reference makes redelivery a no-op; the returned
// bool reports whether this delivery credited funds.
func (s *service) HandleChargeSuccess(ctx context.Context, email string, amountMinor int64, reference string) (bool, error) {
	if email == "" || reference == "" || amountMinor <= 0 {
		return false, ErrInvalidAmount
	}

	amount := float64(amountMinor) / MinorUnitsPerMajor
	credited, err := s.repo.RecordWalletTransaction(reference, email, amount)
	if err != nil {
		s.metrics.RecordError("webhook_credit", "ledger")
		return false, err
	}
	if !credited {
		return false, nil
	}

	// Completing the matching pending deposit is best-effort; the credit
	// is already durable.
	if _, err := s.repo.UpdateTransactionStatus(reference, models.TransactionStatusCompleted); err != nil {
		log.Printf("credited %s but pending transaction update failed: %v", reference, err)
	}

	s.metrics.RecordTransaction("deposit", amount)
	return true, nil
}

// PayGroupShare settles a member's escrow share, from the wallet when the
// available balance covers it, otherwise through a hosted payment session.
func (s *service) PayGroupShare(ctx context.Context, userID, groupID uint, amount float64) (*GroupPaymentResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	profile, err := s.repo.GetProfile(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileMissing) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	reference := uuid.NewString()

	if profile.AvailableBalance() >= amount {
		// The conditional UPDATE re-checks the balance. A concurrent debit
		// winning the gap surfaces as ErrInsufficientFunds, in which case
		// the payment drops through to the hosted checkout path below.
		err := s.repo.DebitAvailable(userID, amount)
		switch {
		case err == nil:
			return s.settleFromWallet(userID, groupID, amount, reference)
		case errors.Is(err, repositories.ErrInsufficientFunds):
		default:
			s.metrics.RecordError("group_payment", "debit")
			return nil, ErrTransactionFailed
		}
	}

	if err := s.repo.CreateTransaction(&models.Transaction{
		UserID:      userID,
		GroupID:     &groupID,
		Type:        models.TransactionTypeEscrow,
		Amount:      amount,
		Status:      models.TransactionStatusPending,
		ReferenceID: reference,
		Description: fmt.Sprintf("Escrow payment for group %d", groupID),
	}); err != nil {
		s.metrics.RecordError("group_payment", "transaction")
		return nil, ErrTransactionFailed
	}

	resp, err := s.gateway.InitializePayment(ctx, paystack.InitializeRequest{
		Email:       profile.Email,
		Amount:      int64(amount * MinorUnitsPerMajor),
		Reference:   reference,
		CallbackURL: fmt.Sprintf("%s/groups/%d", s.appURL, groupID),
	})
	if err != nil {
		if _, markErr := s.repo.UpdateTransactionStatus(reference, models.TransactionStatusFailed); markErr != nil {
			log.Printf("failed to mark escrow %s failed: %v", reference, markErr)
		}
		s.metrics.RecordError("group_payment", "gateway")
		return nil, err
	}

	return &GroupPaymentResult{
		PaidWithWallet: false,
		PaymentURL:     resp.AuthorizationURL,
		Reference:      reference,
	}, nil
}

func (s *service) settleFromWallet(userID, groupID uint, amount float64, reference string) (*GroupPaymentResult, error) {
	if err := s.repo.CreateTransaction(&models.Transaction{
		UserID:      userID,
		GroupID:     &groupID,
		Type:        models.TransactionTypeEscrow,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		ReferenceID: reference,
		Description: fmt.Sprintf("Escrow payment for group %d", groupID),
	}); err != nil {
		log.Printf("wallet debited for group %d but escrow record failed: %v", groupID, err)
	}

	s.metrics.RecordTransaction("escrow", amount)
	return &GroupPaymentResult{PaidWithWallet: true, Reference: reference}, nil
}

func (s *service) GetTransactionHistory(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListTransactions(userID, limit, offset)
}
