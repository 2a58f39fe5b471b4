package models

import "time"

// Request pricing kinds.
const (
	RequestTypeFixed   = "fixed"
	RequestTypeBidding = "bidding"
)

type ServiceRequest struct {
	ID           int     `json:"id"`
	UserID       int     `json:"user_id"`
	UserName     string  `json:"user_name"`
	CategoryID   int     `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Description  string  `json:"description"`
	Address      string  `json:"address"`
	Images       []Image `json:"images"`

	RequestType    string     `json:"request_type"`
	FixedAmount    *float64   `json:"fixed_amount,omitempty"`
	BiddingEndDate *time.Time `json:"bidding_end_date,omitempty"`

	Status               string   `json:"status"`
	AssignedProviderID   *int     `json:"assigned_provider_id,omitempty"`
	AssignedProviderName string   `json:"assigned_provider_name,omitempty"`
	AcceptedBidID        *int     `json:"accepted_bid_id,omitempty"`
	FinalAmount          *float64 `json:"final_amount,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type Image struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// RequestFilter is the parsed form of the list query parameters. Statuses are
// combined with OR semantics.
type RequestFilter struct {
	UserID      int
	Statuses    []string
	RequestType string
}
