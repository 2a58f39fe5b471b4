package models

import "time"

const (
	BidStatusPending  = "pending"
	BidStatusAccepted = "accepted"
	BidStatusRejected = "rejected"
)

// MaxBidAttachments caps the number of images a provider may attach to a bid.
const MaxBidAttachments = 5

type Bid struct {
	ID               int        `json:"id"`
	ServiceRequestID int        `json:"service_request_id"`
	ProviderID       int        `json:"provider_id"`
	ProviderName     string     `json:"provider_name"`
	ProposedAmount   float64    `json:"proposed_amount"`
	Note             string     `json:"note,omitempty"`
	EstimatedTime    string     `json:"estimated_time,omitempty"`
	Attachments      []Image    `json:"attachments,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}
