package lifecycle

import (
	"errors"
	"testing"
	"time"

	"easyserve/internal/fsm"
	"easyserve/internal/models"
)

func newBooking() *models.Booking {
	return &models.Booking{
		ID:           7,
		RequestID:    3,
		UserID:       100,
		UserName:     "Aidar",
		ProviderID:   200,
		ProviderName: "Marat",
		AgreedPrice:  400,
		Status:       fsm.BookingConfirmed,
		CreatedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestServiceHappyPath(t *testing.T) {
	b := newBooking()
	start := b.CreatedAt.Add(time.Hour)

	if err := StartService(b, models.SenderRoleProvider, 200, start); err != nil {
		t.Fatalf("StartService: %v", err)
	}
	if b.Status != fsm.BookingInProgress {
		t.Fatalf("expected in-progress, got %s", b.Status)
	}

	done := start.Add(2 * time.Hour)
	if err := CompleteByProvider(b, models.SenderRoleProvider, 200, done); err != nil {
		t.Fatalf("CompleteByProvider: %v", err)
	}
	if !b.CompletedByProvider || b.Status != fsm.BookingCompleted {
		t.Fatalf("expected completed by provider, got status %s", b.Status)
	}

	rating := 5
	confirm := done.Add(time.Minute)
	if err := ConfirmCompletion(b, models.SenderRoleUser, 100, &rating, "great work", confirm); err != nil {
		t.Fatalf("ConfirmCompletion: %v", err)
	}
	if !b.CompletedByUser {
		t.Fatal("expected completed by user")
	}
	if b.CompletedAt == nil || !b.CompletedAt.Equal(confirm) {
		t.Fatal("completion timestamp missing")
	}
	if b.Rating == nil || *b.Rating != 5 {
		t.Fatal("rating not stored")
	}
}

func TestStartServiceWrongProvider(t *testing.T) {
	b := newBooking()
	err := StartService(b, models.SenderRoleProvider, 999, time.Now())
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if b.Status != fsm.BookingConfirmed {
		t.Fatalf("booking mutated on failure: %s", b.Status)
	}
}

// User and provider ids come from separate sequences, so an id alone does not
// identify a side. A user whose id collides with the provider's must not be
// able to act as the provider, and the other way round.
func TestRoleAndIDMustMatchTogether(t *testing.T) {
	b := newBooking()
	now := time.Now()

	if err := StartService(b, models.SenderRoleUser, 200, now); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("user with the provider's id started the service: %v", err)
	}
	if err := CompleteByProvider(b, models.SenderRoleUser, 200, now); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("user with the provider's id completed the service: %v", err)
	}
	if err := ConfirmCompletion(b, models.SenderRoleProvider, 100, nil, "", now); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("provider with the requester's id confirmed completion: %v", err)
	}
	if err := Cancel(b, models.SenderRoleUser, 200, now); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("user with the provider's id cancelled the booking: %v", err)
	}
	if _, err := NewMessage(b, models.SenderRoleUser, 200, "hi", now); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("user with the provider's id posted to the thread: %v", err)
	}
	if b.Status != fsm.BookingConfirmed {
		t.Fatalf("booking mutated by rejected callers: %s", b.Status)
	}
}

func TestIsParticipant(t *testing.T) {
	b := newBooking()

	if !IsParticipant(b, models.SenderRoleUser, 100) {
		t.Fatal("requester not recognized")
	}
	if !IsParticipant(b, models.SenderRoleProvider, 200) {
		t.Fatal("provider not recognized")
	}
	if IsParticipant(b, models.SenderRoleUser, 200) {
		t.Fatal("user with the provider's id recognized as participant")
	}
	if IsParticipant(b, models.SenderRoleProvider, 100) {
		t.Fatal("provider with the requester's id recognized as participant")
	}
	if IsParticipant(b, "admin", 100) {
		t.Fatal("admin is not a booking participant")
	}
}

func TestStartServiceIdempotent(t *testing.T) {
	b := newBooking()
	now := time.Now()
	if err := StartService(b, models.SenderRoleProvider, 200, now); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := StartService(b, models.SenderRoleProvider, 200, now.Add(time.Second)); err != nil {
		t.Fatalf("second start should be idempotent: %v", err)
	}
}

func TestConfirmBeforeProviderCompletes(t *testing.T) {
	b := newBooking()
	if err := StartService(b, models.SenderRoleProvider, 200, time.Now()); err != nil {
		t.Fatalf("StartService: %v", err)
	}
	err := ConfirmCompletion(b, models.SenderRoleUser, 100, nil, "", time.Now())
	if !errors.Is(err, models.ErrNotCompletedByProvider) {
		t.Fatalf("expected ErrNotCompletedByProvider, got %v", err)
	}
	if b.CompletedByUser {
		t.Fatal("confirmation must not be recorded")
	}
}

func TestCompleteFromConfirmed(t *testing.T) {
	b := newBooking()
	err := CompleteByProvider(b, models.SenderRoleProvider, 200, time.Now())
	if !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	b := newBooking()
	if err := Cancel(b, models.SenderRoleUser, 100, time.Now()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if b.Status != fsm.BookingCancelled {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}
	if err := Cancel(b, models.SenderRoleUser, 100, time.Now()); !errors.Is(err, models.ErrInvalidStatus) {
		t.Fatalf("cancel of terminal booking must fail, got %v", err)
	}
}

func TestCancelByStranger(t *testing.T) {
	b := newBooking()
	if err := Cancel(b, models.SenderRoleUser, 555, time.Now()); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestNewMessage(t *testing.T) {
	b := newBooking()
	now := time.Now()

	msg, err := NewMessage(b, models.SenderRoleUser, 100, "when can you come?", now)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.SenderRole != models.SenderRoleUser {
		t.Fatalf("expected user role, got %s", msg.SenderRole)
	}

	msg, err = NewMessage(b, models.SenderRoleProvider, 200, "tomorrow at 10", now)
	if err != nil {
		t.Fatalf("NewMessage provider: %v", err)
	}
	if msg.SenderRole != models.SenderRoleProvider {
		t.Fatalf("expected provider role, got %s", msg.SenderRole)
	}

	if _, err := NewMessage(b, models.SenderRoleUser, 42, "hi", now); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := NewMessage(b, models.SenderRoleUser, 100, "", now); !errors.Is(err, models.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}
