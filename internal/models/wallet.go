package models

import "time"

const (
	WalletOwnerUser     = "user"
	WalletOwnerProvider = "provider"
)

const (
	WalletEntryCredit = "credit"
	WalletEntryDebit  = "debit"
)

type Wallet struct {
	ID        int    `json:"id"`
	OwnerID   int    `json:"owner_id"`
	OwnerType string `json:"owner_type"`

	Balance     float64 `json:"balance"`
	HeldBalance float64 `json:"held_balance"`
	TotalEarned float64 `json:"total_earned"`
	TotalSpent  float64 `json:"total_spent"`

	Transactions []WalletEntry `json:"transactions"`

	LastWithdrawal *time.Time   `json:"last_withdrawal,omitempty"`
	BankDetails    *BankDetails `json:"bank_details,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// WalletEntry is one row of the append-only per-wallet ledger.
type WalletEntry struct {
	ID        int       `json:"id"`
	WalletID  int       `json:"wallet_id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	IBAN          string `json:"iban,omitempty"`
}

type WithdrawRequest struct {
	Amount float64 `json:"amount"`
}
