package escrow

import (
	"errors"
	"testing"

	"easyserve/internal/models"
)

func TestNewSplit(t *testing.T) {
	s := NewSplit(1000, DefaultFeeRate)
	if s.PlatformFee != 100 {
		t.Fatalf("expected fee 100, got %v", s.PlatformFee)
	}
	if s.ProviderAmount != 900 {
		t.Fatalf("expected provider amount 900, got %v", s.ProviderAmount)
	}
	if s.Amount != s.PlatformFee+s.ProviderAmount {
		t.Fatalf("conservation violated: %v != %v + %v", s.Amount, s.PlatformFee, s.ProviderAmount)
	}
}

func TestSplitConservation(t *testing.T) {
	for _, amount := range []float64{1, 33.33, 400, 999.99, 12500} {
		s := NewSplit(amount, DefaultFeeRate)
		if s.Amount != s.PlatformFee+s.ProviderAmount {
			t.Fatalf("amount %v: %v != %v + %v", amount, s.Amount, s.PlatformFee, s.ProviderAmount)
		}
	}
}

func TestRelease(t *testing.T) {
	s := NewSplit(1000, DefaultFeeRate)
	w := &models.Wallet{OwnerID: 200, OwnerType: models.WalletOwnerProvider, HeldBalance: s.ProviderAmount}

	if !Release(w, s) {
		t.Fatal("release should succeed")
	}
	if w.HeldBalance != 0 {
		t.Fatalf("expected held 0 after release, got %v", w.HeldBalance)
	}
	if w.Balance != 900 {
		t.Fatalf("expected balance 900, got %v", w.Balance)
	}
	if w.TotalEarned != 900 {
		t.Fatalf("expected total earned 900, got %v", w.TotalEarned)
	}

	// a second release of the same split has nothing left to move
	if Release(w, s) {
		t.Fatal("double release must fail")
	}
	if w.Balance != 900 {
		t.Fatalf("balance changed on failed release: %v", w.Balance)
	}
}

func TestValidateWithdrawal(t *testing.T) {
	w := &models.Wallet{Balance: 500}

	if err := ValidateWithdrawal(w, 0, false); !errors.Is(err, models.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := ValidateWithdrawal(w, -20, false); !errors.Is(err, models.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
	if err := ValidateWithdrawal(w, 600, false); !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if err := ValidateWithdrawal(w, 500, true); !errors.Is(err, models.ErrBankDetailsRequired) {
		t.Fatalf("expected ErrBankDetailsRequired, got %v", err)
	}
	w.BankDetails = &models.BankDetails{AccountName: "M. Marat", AccountNumber: "123", BankName: "Halyk"}
	if err := ValidateWithdrawal(w, 500, true); err != nil {
		t.Fatalf("expected valid withdrawal, got %v", err)
	}
}
