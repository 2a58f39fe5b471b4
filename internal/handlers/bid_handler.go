package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"easyserve/internal/models"
	"easyserve/internal/services"
)

type BidHandler struct {
	Service *services.BidService
}

// PlaceBid places the authenticated provider's bid on a request. The provider
// identity always comes from the token, not the payload.
func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var bid models.Bid
	if err := json.NewDecoder(r.Body).Decode(&bid); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if bid.ServiceRequestID == 0 {
		http.Error(w, "service_request_id is required", http.StatusBadRequest)
		return
	}
	bid.ProviderID = callerID(r)

	created, err := h.Service.PlaceBid(r.Context(), bid)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRequestNotFound), errors.Is(err, models.ErrProviderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidAmount),
			errors.Is(err, models.ErrTooManyAttachments),
			errors.Is(err, models.ErrNotBiddingRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrBiddingClosed), errors.Is(err, models.ErrAlreadyBid):
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

// AcceptBid lets the requester pick the winning bid, which assigns the
// request and creates the booking.
func (h *BidHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BidID int `json:"bid_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BidID == 0 {
		http.Error(w, "bid_id is required", http.StatusBadRequest)
		return
	}

	sr, booking, err := h.Service.AcceptBid(r.Context(), req.BidID, callerID(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBidNotFound), errors.Is(err, models.ErrRequestNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, models.ErrBookingExists), errors.Is(err, models.ErrInvalidStatus):
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

func (h *BidHandler) GetBidsForRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := getIntParam(r, "id")
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	bids, err := h.Service.GetBidsForRequest(r.Context(), requestID, callerID(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRequestNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bids)
}

// GetProviderBids lists a provider's bids, newest first. Providers only see
// their own.
func (h *BidHandler) GetProviderBids(w http.ResponseWriter, r *http.Request) {
	providerID, err := getIntParam(r, "providerId")
	if err != nil {
		http.Error(w, "Invalid provider ID", http.StatusBadRequest)
		return
	}
	if providerID != callerID(r) && callerRole(r) != "admin" {
		http.Error(w, models.ErrForbidden.Error(), http.StatusForbidden)
		return
	}

	bids, err := h.Service.GetBidsByProvider(r.Context(), providerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bids)
}
