package services

import (
	"context"

	"easyserve/internal/escrow"
	"easyserve/internal/fsm"
	"easyserve/internal/lifecycle"
	"easyserve/internal/models"
	"easyserve/internal/repositories"
)

type PaymentService struct {
	PaymentRepo *repositories.PaymentRepository
	WalletRepo  *repositories.WalletRepository
	BookingRepo *repositories.BookingRepository

	// FeeRate falls back to the default platform commission when zero.
	FeeRate            float64
	RequireBankDetails bool
}

func (s *PaymentService) feeRate() float64 {
	if s.FeeRate > 0 {
		return s.FeeRate
	}
	return escrow.DefaultFeeRate
}

// InitiatePayment charges the requester for a booking and places the
// provider's net amount into escrow. Only the booking's requester pays.
func (s *PaymentService) InitiatePayment(ctx context.Context, bookingID int, callerRole string, callerID int, method string) (models.Transaction, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.Transaction{}, err
	}
	if callerRole != models.SenderRoleUser || b.UserID != callerID {
		return models.Transaction{}, models.ErrForbidden
	}
	if b.IsPaid {
		return models.Transaction{}, models.ErrAlreadyPaid
	}
	if b.Status == fsm.BookingCancelled || b.Status == fsm.BookingDisputed {
		return models.Transaction{}, models.ErrInvalidStatus
	}

	split := escrow.NewSplit(b.AgreedPrice, s.feeRate())
	return s.PaymentRepo.Initiate(ctx, b, split, method)
}

// ReleasePayment settles the escrowed amount into the provider's balance.
func (s *PaymentService) ReleasePayment(ctx context.Context, bookingID int) (models.Transaction, models.Wallet, error) {
	return s.PaymentRepo.Release(ctx, bookingID)
}

// RaiseDispute freezes a booking and its held payment. Either participant may
// dispute.
func (s *PaymentService) RaiseDispute(ctx context.Context, bookingID int, callerRole string, callerID int, reason string) error {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !lifecycle.IsParticipant(&b, callerRole, callerID) {
		return models.ErrForbidden
	}
	return s.PaymentRepo.Dispute(ctx, bookingID, reason)
}

func (s *PaymentService) GetWallet(ctx context.Context, ownerID int, ownerType string) (models.Wallet, error) {
	return s.WalletRepo.GetOrCreateWallet(ctx, ownerID, ownerType)
}

// Withdraw debits the provider's available balance. The policy checks run
// against a snapshot here; the repository's conditional decrement is what
// keeps a concurrent overdraft out.
func (s *PaymentService) Withdraw(ctx context.Context, providerID int, amount float64) (models.Wallet, error) {
	w, err := s.WalletRepo.GetWalletByOwner(ctx, providerID, models.WalletOwnerProvider)
	if err != nil {
		return models.Wallet{}, err
	}
	if err := escrow.ValidateWithdrawal(&w, amount, s.RequireBankDetails); err != nil {
		return models.Wallet{}, err
	}
	return s.WalletRepo.Withdraw(ctx, providerID, amount)
}

func (s *PaymentService) SaveBankDetails(ctx context.Context, ownerID int, ownerType string, details models.BankDetails) (models.Wallet, error) {
	return s.WalletRepo.SaveBankDetails(ctx, ownerID, ownerType, details)
}

func (s *PaymentService) GetTransactionHistory(ctx context.Context, ownerID int, ownerType string) ([]models.Transaction, error) {
	return s.PaymentRepo.GetTransactionHistory(ctx, ownerID, ownerType)
}

func (s *PaymentService) GetTransactionByBooking(ctx context.Context, bookingID int, callerRole string, callerID int) (models.Transaction, error) {
	t, err := s.PaymentRepo.GetTransactionByBooking(ctx, bookingID)
	if err != nil {
		return models.Transaction{}, err
	}
	switch {
	case callerRole == models.SenderRoleUser && t.UserID == callerID:
	case callerRole == models.SenderRoleProvider && t.ProviderID == callerID:
	default:
		return models.Transaction{}, models.ErrForbidden
	}
	return t, nil
}
