package lifecycle

import (
	"time"

	"easyserve/internal/fsm"
	"easyserve/internal/models"
)

// Booking progression rules. These functions validate and mutate a booking in
// memory; persistence is the repository's job. Keeping the rules here lets the
// whole service flow be exercised without a database.
//
// Callers are identified by a (role, id) pair. User and provider ids come from
// separate auto-increment sequences, so a bare id is ambiguous: user #7 and
// provider #7 are different accounts.

// IsParticipant reports whether the caller is one of the booking's two
// parties.
func IsParticipant(b *models.Booking, role string, callerID int) bool {
	switch role {
	case models.SenderRoleUser:
		return b.UserID == callerID
	case models.SenderRoleProvider:
		return b.ProviderID == callerID
	}
	return false
}

// StartService moves a confirmed booking to in-progress. Only the assigned
// provider may start the service.
func StartService(b *models.Booking, role string, callerID int, now time.Time) error {
	if role != models.SenderRoleProvider || b.ProviderID != callerID {
		return models.ErrForbidden
	}
	if b.Status == fsm.BookingInProgress {
		// already started, idempotent
		return nil
	}
	if b.Status != fsm.BookingConfirmed {
		return models.ErrInvalidStatus
	}
	b.Status = fsm.BookingInProgress
	b.UpdatedAt = &now
	return nil
}

// CompleteByProvider marks the service as done from the provider's side.
func CompleteByProvider(b *models.Booking, role string, callerID int, now time.Time) error {
	if role != models.SenderRoleProvider || b.ProviderID != callerID {
		return models.ErrForbidden
	}
	if b.CompletedByProvider && b.Status == fsm.BookingCompleted {
		return nil
	}
	if b.Status != fsm.BookingInProgress {
		return models.ErrInvalidStatus
	}
	b.CompletedByProvider = true
	b.Status = fsm.BookingCompleted
	b.UpdatedAt = &now
	return nil
}

// ConfirmCompletion records the requester's confirmation. The provider must
// have completed first; release of the escrowed funds is a follow-up effect
// handled by the payment service.
func ConfirmCompletion(b *models.Booking, role string, callerID int, rating *int, review string, now time.Time) error {
	if role != models.SenderRoleUser || b.UserID != callerID {
		return models.ErrForbidden
	}
	if !b.CompletedByProvider {
		return models.ErrNotCompletedByProvider
	}
	if b.Status != fsm.BookingCompleted {
		return models.ErrInvalidStatus
	}
	b.CompletedByUser = true
	b.CompletedAt = &now
	if rating != nil {
		b.Rating = rating
	}
	if review != "" {
		b.Review = review
	}
	b.UpdatedAt = &now
	return nil
}

// Cancel aborts a booking from any non-terminal state. Either party may cancel.
func Cancel(b *models.Booking, role string, callerID int, now time.Time) error {
	if !IsParticipant(b, role, callerID) {
		return models.ErrForbidden
	}
	if !fsm.CanBookingTransition(b.Status, fsm.BookingCancelled) {
		return models.ErrInvalidStatus
	}
	b.Status = fsm.BookingCancelled
	b.UpdatedAt = &now
	return nil
}

// NewMessage validates and builds a thread entry. The sender must be one of
// the two booking participants, on the side their role names.
func NewMessage(b *models.Booking, senderRole string, senderID int, text string, now time.Time) (models.BookingMessage, error) {
	if !IsParticipant(b, senderRole, senderID) {
		return models.BookingMessage{}, models.ErrForbidden
	}
	if text == "" {
		return models.BookingMessage{}, models.ErrEmptyMessage
	}
	return models.BookingMessage{
		BookingID:  b.ID,
		SenderRole: senderRole,
		SenderID:   senderID,
		Text:       text,
		CreatedAt:  now,
	}, nil
}
