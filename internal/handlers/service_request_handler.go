package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"easyserve/internal/models"
	"easyserve/internal/services"
)

type ServiceRequestHandler struct {
	Service *services.ServiceRequestService
}

func (h *ServiceRequestHandler) CreateServiceRequest(w http.ResponseWriter, r *http.Request) {
	var sr models.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&sr); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if sr.CategoryID == 0 || sr.Description == "" {
		http.Error(w, "Category and description are required", http.StatusBadRequest)
		return
	}
	sr.UserID = callerID(r)

	created, err := h.Service.CreateServiceRequest(r.Context(), sr)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount),
			errors.Is(err, models.ErrInvalidRequestType),
			errors.Is(err, models.ErrBiddingClosed),
			errors.Is(err, models.ErrCategoryNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *ServiceRequestHandler) GetServiceRequestByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	sr, err := h.Service.GetServiceRequestByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrRequestNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sr)
}

// GetServiceRequests lists requests. Providers browse the open pool; a
// requester filters by their own userId.
func (h *ServiceRequestHandler) GetServiceRequests(w http.ResponseWriter, r *http.Request) {
	filter := models.RequestFilter{
		Statuses:    parseStatuses(r.URL.Query().Get("status")),
		RequestType: r.URL.Query().Get("requestType"),
	}
	if userID, err := getIntParam(r, "userId"); err == nil {
		filter.UserID = userID
	}

	requests, err := h.Service.GetServiceRequests(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// AcceptFixedRequest lets the authenticated provider take a fixed price
// request directly.
func (h *ServiceRequestHandler) AcceptFixedRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequestID int `json:"request_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RequestID == 0 {
		http.Error(w, "request_id is required", http.StatusBadRequest)
		return
	}

	sr, booking, err := h.Service.AcceptFixedRequest(r.Context(), req.RequestID, callerID(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRequestNotFound), errors.Is(err, models.ErrProviderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrNotFixedRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrRequestAssigned), errors.Is(err, models.ErrBookingExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"request": sr,
		"booking": booking,
	})
}
