package models

import (
	"errors"
)

var (
	ErrNoRecord            = errors.New("models: no matching record found")
	ErrInvalidCredentials  = errors.New("models: invalid credentials")
	ErrDuplicateEmail      = errors.New("models: duplicate email")
	ErrUserNotFound        = errors.New("models: user not found")
	ErrProviderNotFound    = errors.New("models: provider not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrRequestNotFound     = errors.New("service request not found")
	ErrBidNotFound         = errors.New("bid not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrNotBiddingRequest = errors.New("request is not open for bidding")
	ErrBiddingClosed     = errors.New("bidding is closed for this request")
	ErrAlreadyBid        = errors.New("provider has already placed a bid")
	ErrNotFixedRequest   = errors.New("request is not a fixed price request")
	ErrRequestAssigned   = errors.New("request is already assigned")
	ErrBookingExists     = errors.New("booking already exists")

	ErrInvalidStatus          = errors.New("invalid status transition")
	ErrForbidden              = errors.New("forbidden")
	ErrNotCompletedByProvider = errors.New("service is not completed by provider")
	ErrEmptyMessage           = errors.New("message text is empty")

	ErrInvalidRequestType = errors.New("unknown request type")
	ErrTooManyAttachments = errors.New("too many attachments")
	ErrSessionExpired     = errors.New("session expired")

	ErrAlreadyPaid         = errors.New("booking is already paid")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrBankDetailsRequired = errors.New("bank details required before withdrawal")
)
