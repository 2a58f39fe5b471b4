package fsm

import "testing"

func TestCanRequestTransition(t *testing.T) {
	if !CanRequestTransition(RequestOpen, RequestBidding) {
		t.Fatal("expected open -> bidding to be allowed")
	}
	if !CanRequestTransition(RequestOpen, RequestAssigned) {
		t.Fatal("expected open -> assigned to be allowed for fixed requests")
	}
	if !CanRequestTransition(RequestBidding, RequestAssigned) {
		t.Fatal("expected bidding -> assigned to be allowed")
	}
	if CanRequestTransition(RequestAssigned, RequestOpen) {
		t.Fatal("unexpected backward transition allowed")
	}
	if CanRequestTransition(RequestCompleted, RequestCancelled) {
		t.Fatal("completed is terminal, cancel must not be allowed")
	}
	if !CanRequestTransition(RequestBidding, RequestCancelled) {
		t.Fatal("expected bidding -> cancelled to be allowed")
	}
}

func TestCanBookingTransition(t *testing.T) {
	if !CanBookingTransition(BookingConfirmed, BookingInProgress) {
		t.Fatal("expected confirmed -> in-progress to be allowed")
	}
	if !CanBookingTransition(BookingInProgress, BookingCompleted) {
		t.Fatal("expected in-progress -> completed to be allowed")
	}
	if !CanBookingTransition(BookingCompleted, BookingPaymentReleased) {
		t.Fatal("expected completed -> payment-released to be allowed")
	}
	if CanBookingTransition(BookingConfirmed, BookingCompleted) {
		t.Fatal("unexpected confirmed -> completed shortcut allowed")
	}
	if CanBookingTransition(BookingPaymentReleased, BookingDisputed) {
		t.Fatal("payment-released is terminal")
	}
	if !CanBookingTransition(BookingCompleted, BookingDisputed) {
		t.Fatal("expected completed -> disputed to be allowed")
	}
}

// Repeating a transition must be rejected: an assigned request accepting a
// second bid, or a cancelled booking being cancelled again, would otherwise
// slip through the status gate.
func TestSelfTransitionsRejected(t *testing.T) {
	if CanRequestTransition(RequestAssigned, RequestAssigned) {
		t.Fatal("assigned -> assigned must not be allowed")
	}
	if CanRequestTransition(RequestOpen, RequestOpen) {
		t.Fatal("open -> open must not be allowed")
	}
	if CanBookingTransition(BookingCancelled, BookingCancelled) {
		t.Fatal("cancelled -> cancelled must not be allowed")
	}
	if CanBookingTransition(BookingInProgress, BookingInProgress) {
		t.Fatal("in-progress -> in-progress must not be allowed")
	}
	if CanTransactionTransition(TxHeld, TxHeld) {
		t.Fatal("held -> held must not be allowed")
	}
}

func TestCanTransactionTransition(t *testing.T) {
	if !CanTransactionTransition(TxPending, TxHeld) {
		t.Fatal("expected pending -> held to be allowed")
	}
	if !CanTransactionTransition(TxHeld, TxCompleted) {
		t.Fatal("expected held -> completed to be allowed")
	}
	if !CanTransactionTransition(TxHeld, TxRefunded) {
		t.Fatal("expected held -> refunded to be allowed")
	}
	if CanTransactionTransition(TxPending, TxCompleted) {
		t.Fatal("unexpected pending -> completed shortcut allowed")
	}
	if CanTransactionTransition(TxCompleted, TxRefunded) {
		t.Fatal("completed transactions are immutable")
	}
}
