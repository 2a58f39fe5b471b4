package models

import "time"

type Booking struct {
	ID           int    `json:"id"`
	RequestID    int    `json:"request_id"`
	BidID        *int   `json:"bid_id,omitempty"`
	UserID       int    `json:"user_id"`
	UserName     string `json:"user_name"`
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`

	// AgreedPrice is copied from the winning bid or the fixed amount at
	// creation and never changes afterwards.
	AgreedPrice float64 `json:"agreed_price"`

	Status        string `json:"status"`
	IsPaid        bool   `json:"is_paid"`
	TransactionID *int   `json:"transaction_id,omitempty"`

	CompletedByProvider bool       `json:"completed_by_provider"`
	CompletedByUser     bool       `json:"completed_by_user"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`

	Rating *int   `json:"rating,omitempty"`
	Review string `json:"review,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

const (
	SenderRoleUser     = "user"
	SenderRoleProvider = "provider"
)

type BookingMessage struct {
	ID         int       `json:"id"`
	BookingID  int       `json:"booking_id"`
	SenderRole string    `json:"sender_role"`
	SenderID   int       `json:"sender_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingFilter struct {
	UserID     int
	ProviderID int
	Statuses   []string
}
