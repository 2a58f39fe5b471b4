package services

import (
	"context"
	"time"

	"easyserve/internal/fsm"
	"easyserve/internal/lifecycle"
	"easyserve/internal/models"
	"easyserve/internal/repositories"
)

// BookingNotifier pushes thread messages to connected websocket clients. The
// booking identifies the counterparty the message should reach.
type BookingNotifier interface {
	NotifyMessage(b models.Booking, msg models.BookingMessage)
}

type BookingService struct {
	BookingRepo *repositories.BookingRepository
	RequestRepo *repositories.ServiceRequestRepository
	Payments    *PaymentService
	Notifier    BookingNotifier
}

// CreateBooking records a booking arranged outside the bid and fixed
// acceptance flows. The requester side is always taken from the parent
// request; the price defaults to the request's fixed amount.
func (s *BookingService) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	sr, err := s.RequestRepo.GetServiceRequestByID(ctx, b.RequestID)
	if err != nil {
		return models.Booking{}, err
	}
	b.UserID = sr.UserID
	b.UserName = sr.UserName
	if b.AgreedPrice == 0 && sr.FixedAmount != nil {
		b.AgreedPrice = *sr.FixedAmount
	}
	if b.AgreedPrice <= 0 {
		return models.Booking{}, models.ErrInvalidAmount
	}
	b.Status = fsm.BookingConfirmed

	b, err = s.BookingRepo.CreateBooking(ctx, b)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.syncRequestStatus(ctx, b.RequestID, fsm.RequestAssigned); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, id int, callerRole string, callerID int) (models.Booking, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if !lifecycle.IsParticipant(&b, callerRole, callerID) {
		return models.Booking{}, models.ErrForbidden
	}
	return b, nil
}

func (s *BookingService) GetBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return s.BookingRepo.GetBookings(ctx, filter)
}

// StartService moves the booking to in-progress and keeps the parent request
// in step.
func (s *BookingService) StartService(ctx context.Context, bookingID int, callerRole string, callerID int) (models.Booking, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	from := b.Status
	if err := lifecycle.StartService(&b, callerRole, callerID, time.Now()); err != nil {
		return models.Booking{}, err
	}
	if b.Status == from {
		return b, nil
	}
	if err := s.BookingRepo.UpdateProgress(ctx, b, from); err != nil {
		return models.Booking{}, err
	}
	if err := s.syncRequestStatus(ctx, b.RequestID, fsm.RequestInProgress); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (s *BookingService) CompleteByProvider(ctx context.Context, bookingID int, callerRole string, callerID int) (models.Booking, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	from := b.Status
	if err := lifecycle.CompleteByProvider(&b, callerRole, callerID, time.Now()); err != nil {
		return models.Booking{}, err
	}
	if b.Status == from && b.CompletedByProvider {
		return b, nil
	}
	if err := s.BookingRepo.UpdateProgress(ctx, b, from); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// ConfirmCompletion records the requester's confirmation, marks the request
// completed and releases the escrowed payment when one is held.
func (s *BookingService) ConfirmCompletion(ctx context.Context, bookingID int, callerRole string, callerID int, rating *int, review string) (models.Booking, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	from := b.Status
	if err := lifecycle.ConfirmCompletion(&b, callerRole, callerID, rating, review, time.Now()); err != nil {
		return models.Booking{}, err
	}
	if err := s.BookingRepo.UpdateProgress(ctx, b, from); err != nil {
		return models.Booking{}, err
	}
	if err := s.syncRequestStatus(ctx, b.RequestID, fsm.RequestCompleted); err != nil {
		return models.Booking{}, err
	}

	if b.IsPaid {
		if _, _, err := s.Payments.ReleasePayment(ctx, b.ID); err != nil {
			return models.Booking{}, err
		}
		return s.BookingRepo.GetBookingByID(ctx, b.ID)
	}
	return b, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID int, callerRole string, callerID int) (models.Booking, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}

	from := b.Status
	if err := lifecycle.Cancel(&b, callerRole, callerID, time.Now()); err != nil {
		return models.Booking{}, err
	}
	if err := s.BookingRepo.UpdateProgress(ctx, b, from); err != nil {
		return models.Booking{}, err
	}
	if err := s.syncRequestStatus(ctx, b.RequestID, fsm.RequestCancelled); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (s *BookingService) SendMessage(ctx context.Context, bookingID int, senderRole string, senderID int, text string) (models.BookingMessage, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return models.BookingMessage{}, err
	}

	msg, err := lifecycle.NewMessage(&b, senderRole, senderID, text, time.Now())
	if err != nil {
		return models.BookingMessage{}, err
	}
	msg, err = s.BookingRepo.CreateMessage(ctx, msg)
	if err != nil {
		return models.BookingMessage{}, err
	}
	if s.Notifier != nil {
		s.Notifier.NotifyMessage(b, msg)
	}
	return msg, nil
}

func (s *BookingService) GetMessages(ctx context.Context, bookingID int, callerRole string, callerID int) ([]models.BookingMessage, error) {
	b, err := s.BookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.IsParticipant(&b, callerRole, callerID) {
		return nil, models.ErrForbidden
	}
	return s.BookingRepo.GetMessages(ctx, bookingID)
}

// syncRequestStatus advances the parent request when the booking moves. A
// request already past the target state is left alone.
func (s *BookingService) syncRequestStatus(ctx context.Context, requestID int, to string) error {
	sr, err := s.RequestRepo.GetServiceRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if sr.Status == to || !fsm.CanRequestTransition(sr.Status, to) {
		return nil
	}
	return fsm.ApplyRequest(ctx, s.RequestRepo.DB, sr.ID, sr.Status, to)
}
