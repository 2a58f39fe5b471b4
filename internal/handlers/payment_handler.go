package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"easyserve/internal/models"
	"easyserve/internal/services"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID     int    `json:"booking_id"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == 0 {
		http.Error(w, "booking_id is required", http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	txn, err := h.Service.InitiatePayment(r.Context(), req.BookingID, callerRole(r), callerID(r), req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, models.ErrAlreadyPaid), errors.Is(err, models.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(txn)
}

func (h *PaymentHandler) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID int    `json:"booking_id"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == 0 {
		http.Error(w, "booking_id is required", http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		http.Error(w, "Dispute reason is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.RaiseDispute(r.Context(), req.BookingID, callerRole(r), callerID(r), req.Reason); err != nil {
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, models.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PaymentHandler) GetTransactionByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := getIntParam(r, "bookingId")
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	txn, err := h.Service.GetTransactionByBooking(r.Context(), bookingID, callerRole(r), callerID(r))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrForbidden):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}

// GetWallet returns the caller's wallet with its ledger, creating it on first
// access.
func (h *PaymentHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.Service.GetWallet(r.Context(), callerID(r), callerRole(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wallet)
}

func (h *PaymentHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.Service.GetTransactionHistory(r.Context(), callerID(r), callerRole(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

// Withdraw debits the provider's available balance.
func (h *PaymentHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	wallet, err := h.Service.Withdraw(r.Context(), callerID(r), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrWalletNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrBankDetailsRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrInsufficientFunds):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wallet)
}

func (h *PaymentHandler) SaveBankDetails(w http.ResponseWriter, r *http.Request) {
	var details models.BankDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if details.AccountName == "" || details.AccountNumber == "" || details.BankName == "" {
		http.Error(w, "Account name, account number and bank name are required", http.StatusBadRequest)
		return
	}

	wallet, err := h.Service.SaveBankDetails(r.Context(), callerID(r), callerRole(r), details)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wallet)
}
