package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"easyserve/internal/fsm"
	"easyserve/internal/models"
	"easyserve/internal/services"
)

type BookingHandler struct {
	Service *services.BookingService
}

// GetBookings lists bookings filtered by userId, providerId and status. A
// non-admin caller is always pinned to their own side of the booking.
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	filter := models.BookingFilter{
		Statuses: parseStatuses(r.URL.Query().Get("status")),
	}
	if userID, err := getIntParam(r, "userId"); err == nil {
		filter.UserID = userID
	}
	if providerID, err := getIntParam(r, "providerId"); err == nil {
		filter.ProviderID = providerID
	}
	switch callerRole(r) {
	case models.SenderRoleProvider:
		filter.ProviderID = callerID(r)
	case "admin":
	default:
		filter.UserID = callerID(r)
	}

	bookings, err := h.Service.GetBookings(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

// CreateBooking records a booking made outside the bid and fixed acceptance
// flows, for example one arranged by support staff.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var b models.Booking
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if b.RequestID == 0 || b.ProviderID == 0 {
		http.Error(w, "request_id and provider_id are required", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateBooking(r.Context(), b)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRequestNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrBookingExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.GetBookingByID(r.Context(), id, callerRole(r), callerID(r))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

// UpdateStatus drives the booking through its lifecycle from a single
// endpoint. The target status picks the transition; who may perform it is
// enforced by the underlying operation.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
		Rating *int   `json:"rating"`
		Review string `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var booking models.Booking
	switch req.Status {
	case fsm.BookingInProgress:
		booking, err = h.Service.StartService(r.Context(), id, callerRole(r), callerID(r))
	case fsm.BookingCompleted:
		if callerRole(r) == models.SenderRoleProvider {
			booking, err = h.Service.CompleteByProvider(r.Context(), id, callerRole(r), callerID(r))
		} else {
			if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
				http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
				return
			}
			booking, err = h.Service.ConfirmCompletion(r.Context(), id, callerRole(r), callerID(r), req.Rating, req.Review)
		}
	case fsm.BookingCancelled:
		booking, err = h.Service.CancelBooking(r.Context(), id, callerRole(r), callerID(r))
	default:
		http.Error(w, "Unsupported status transition", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.Service.SendMessage(r.Context(), id, callerRole(r), callerID(r), req.Text)
	if err != nil {
		if errors.Is(err, models.ErrEmptyMessage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

func (h *BookingHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	messages, err := h.Service.GetMessages(r.Context(), id, callerRole(r), callerID(r))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// MarkCompleted is the payment flow entry for the provider declaring the work
// done. The booking ID travels in the body.
func (h *BookingHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID int `json:"booking_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == 0 {
		http.Error(w, "booking_id is required", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.CompleteByProvider(r.Context(), req.BookingID, callerRole(r), callerID(r))
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

// ConfirmRelease is the payment flow entry for the requester signing off,
// which moves the held funds to the provider.
func (h *BookingHandler) ConfirmRelease(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID int    `json:"booking_id"`
		Rating    *int   `json:"rating"`
		Review    string `json:"review"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == 0 {
		http.Error(w, "booking_id is required", http.StatusBadRequest)
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.ConfirmCompletion(r.Context(), req.BookingID, callerRole(r), callerID(r), req.Rating, req.Review)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrBookingNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrInvalidStatus), errors.Is(err, models.ErrNotCompletedByProvider):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
