package fsm

import (
	"context"
	"database/sql"

	"easyserve/internal/models"
)

// Status constants used by the service request state machine.
const (
	RequestOpen       = "open"
	RequestBidding    = "bidding"
	RequestAssigned   = "assigned"
	RequestInProgress = "in-progress"
	RequestCompleted  = "completed"
	RequestCancelled  = "cancelled"
)

// Status constants used by the booking state machine.
const (
	BookingConfirmed       = "confirmed"
	BookingInProgress      = "in-progress"
	BookingCompleted       = "completed"
	BookingPaymentReleased = "payment-released"
	BookingCancelled       = "cancelled"
	BookingDisputed        = "disputed"
)

// Status constants used by the transaction state machine.
const (
	TxPending   = "pending"
	TxHeld      = "held"
	TxCompleted = "completed"
	TxRefunded  = "refunded"
	TxDisputed  = "disputed"
)

var requestTransitions = map[string]map[string]struct{}{
	RequestOpen: {
		RequestBidding:   {},
		RequestAssigned:  {},
		RequestCancelled: {},
	},
	RequestBidding: {
		RequestAssigned:  {},
		RequestCancelled: {},
	},
	RequestAssigned: {
		RequestInProgress: {},
		RequestCompleted:  {},
		RequestCancelled:  {},
	},
	RequestInProgress: {
		RequestCompleted: {},
		RequestCancelled: {},
	},
	RequestCompleted: {},
	RequestCancelled: {},
}

var bookingTransitions = map[string]map[string]struct{}{
	BookingConfirmed: {
		BookingInProgress: {},
		BookingCancelled:  {},
		BookingDisputed:   {},
	},
	BookingInProgress: {
		BookingCompleted: {},
		BookingCancelled: {},
		BookingDisputed:  {},
	},
	BookingCompleted: {
		BookingPaymentReleased: {},
		BookingDisputed:        {},
	},
	BookingPaymentReleased: {},
	BookingCancelled:       {},
	BookingDisputed:        {},
}

var transactionTransitions = map[string]map[string]struct{}{
	TxPending: {
		TxHeld: {},
	},
	TxHeld: {
		TxCompleted: {},
		TxRefunded:  {},
		TxDisputed:  {},
	},
	TxCompleted: {},
	TxRefunded:  {},
	TxDisputed:  {},
}

func canTransition(table map[string]map[string]struct{}, from, to string) bool {
	allowed, ok := table[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// CanRequestTransition reports whether a service request may move from one
// status to another. Statuses only advance forward; cancellation is reachable
// from every non-terminal state. A status never transitions to itself, so
// repeating an already-applied transition is rejected rather than silently
// allowed.
func CanRequestTransition(from, to string) bool {
	return canTransition(requestTransitions, from, to)
}

// CanBookingTransition reports whether a booking may move from one status to
// another.
func CanBookingTransition(from, to string) bool {
	return canTransition(bookingTransitions, from, to)
}

// CanTransactionTransition reports whether a payment transaction may move from
// one status to another.
func CanTransactionTransition(from, to string) bool {
	return canTransition(transactionTransitions, from, to)
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func apply(ctx context.Context, db DBTX, table string, id int, from, to string) error {
	res, err := db.ExecContext(ctx, `UPDATE `+table+` SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyRequest updates a service request status using optimistic validation.
// The conditional WHERE clause makes concurrent writers lose deterministically.
func ApplyRequest(ctx context.Context, db DBTX, requestID int, from, to string) error {
	if !CanRequestTransition(from, to) {
		return models.ErrInvalidStatus
	}
	return apply(ctx, db, "service_requests", requestID, from, to)
}

// ApplyBooking updates a booking status using optimistic validation.
func ApplyBooking(ctx context.Context, db DBTX, bookingID int, from, to string) error {
	if !CanBookingTransition(from, to) {
		return models.ErrInvalidStatus
	}
	return apply(ctx, db, "bookings", bookingID, from, to)
}

// ApplyTransaction updates a transaction status using optimistic validation.
func ApplyTransaction(ctx context.Context, db DBTX, transactionID int, from, to string) error {
	if !CanTransactionTransition(from, to) {
		return models.ErrInvalidStatus
	}
	return apply(ctx, db, "transactions", transactionID, from, to)
}
