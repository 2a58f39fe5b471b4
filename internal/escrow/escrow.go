package escrow

import "easyserve/internal/models"

// DefaultFeeRate is the platform commission withheld from every payment.
const DefaultFeeRate = 0.10

// Split is the breakdown of one payment. Amount = PlatformFee + ProviderAmount
// holds exactly: the provider amount is computed as the complement of the fee,
// never derived independently.
type Split struct {
	Amount         float64
	PlatformFee    float64
	ProviderAmount float64
}

// NewSplit computes the fee breakdown for an agreed price.
func NewSplit(amount, feeRate float64) Split {
	fee := amount * feeRate
	return Split{
		Amount:         amount,
		PlatformFee:    fee,
		ProviderAmount: amount - fee,
	}
}

// Release moves the escrowed net amount into the provider's available balance.
// The wallet is mutated in memory; persisting the new balances is the caller's
// job, under whatever lock it holds on the row. Returns false when the wallet
// does not hold enough; the caller must treat that as a state error, funds are
// never invented.
func Release(w *models.Wallet, s Split) bool {
	if w.HeldBalance < s.ProviderAmount {
		return false
	}
	w.HeldBalance -= s.ProviderAmount
	w.Balance += s.ProviderAmount
	w.TotalEarned += s.ProviderAmount
	return true
}

// ValidateWithdrawal checks a withdrawal request against the wallet state and
// the bank-details policy.
func ValidateWithdrawal(w *models.Wallet, amount float64, requireBankDetails bool) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	if requireBankDetails && w.BankDetails == nil {
		return models.ErrBankDetailsRequired
	}
	if amount > w.Balance {
		return models.ErrInsufficientFunds
	}
	return nil
}
