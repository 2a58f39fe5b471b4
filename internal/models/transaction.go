package models

import "time"

type Transaction struct {
	ID         int `json:"id"`
	BookingID  int `json:"booking_id"`
	UserID     int `json:"user_id"`
	ProviderID int `json:"provider_id"`

	// Amount = PlatformFee + ProviderAmount, always.
	Amount         float64 `json:"amount"`
	PlatformFee    float64 `json:"platform_fee"`
	ProviderAmount float64 `json:"provider_amount"`

	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`

	PaidAt     *time.Time `json:"paid_at,omitempty"`
	HeldAt     *time.Time `json:"held_at,omitempty"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`

	DisputeReason string `json:"dispute_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
