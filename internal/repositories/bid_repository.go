package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"easyserve/internal/fsm"
	"easyserve/internal/models"
)

type BidRepository struct {
	DB *sql.DB
}

const bidColumns = `
    id, service_request_id, provider_id, provider_name, proposed_amount,
    note, estimated_time, attachments, status, created_at, updated_at
`

func scanBid(row interface{ Scan(dest ...any) error }) (models.Bid, error) {
	var b models.Bid
	var attachmentsJSON []byte
	err := row.Scan(
		&b.ID, &b.ServiceRequestID, &b.ProviderID, &b.ProviderName, &b.ProposedAmount,
		&b.Note, &b.EstimatedTime, &attachmentsJSON, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Bid{}, err
	}
	if len(attachmentsJSON) > 0 {
		if err := json.Unmarshal(attachmentsJSON, &b.Attachments); err != nil {
			return models.Bid{}, fmt.Errorf("failed to decode attachments json: %w", err)
		}
	}
	return b, nil
}

// CreateBid persists a pending bid and flips the request to bidding when this
// is the first one. The unique index on (service_request_id, provider_id)
// backs up the pre-check, so a racing duplicate fails on insert.
func (r *BidRepository) CreateBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Bid{}, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bids WHERE service_request_id = ? AND provider_id = ?`, bid.ServiceRequestID, bid.ProviderID).Scan(&count); err != nil {
		return models.Bid{}, err
	}
	if count > 0 {
		return models.Bid{}, models.ErrAlreadyBid
	}

	attachmentsJSON, err := json.Marshal(bid.Attachments)
	if err != nil {
		return models.Bid{}, err
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
        INSERT INTO bids (service_request_id, provider_id, provider_name, proposed_amount, note, estimated_time, attachments, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, bid.ServiceRequestID, bid.ProviderID, bid.ProviderName, bid.ProposedAmount, bid.Note, bid.EstimatedTime, string(attachmentsJSON), models.BidStatusPending, now)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Bid{}, models.ErrAlreadyBid
		}
		return models.Bid{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Bid{}, err
	}

	// first bid moves the request from open to bidding; no-op otherwise
	if _, err := tx.ExecContext(ctx, `UPDATE service_requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`, fsm.RequestBidding, now, bid.ServiceRequestID, fsm.RequestOpen); err != nil {
		return models.Bid{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Bid{}, err
	}

	bid.ID = int(id)
	bid.Status = models.BidStatusPending
	bid.CreatedAt = now
	return bid, nil
}

func (r *BidRepository) GetBidByID(ctx context.Context, id int) (models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = ?`
	b, err := scanBid(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return models.Bid{}, models.ErrBidNotFound
	}
	if err != nil {
		return models.Bid{}, err
	}
	return b, nil
}

func (r *BidRepository) GetBidsByRequest(ctx context.Context, requestID int) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE service_request_id = ? ORDER BY proposed_amount ASC`
	return r.queryBids(ctx, query, requestID)
}

func (r *BidRepository) GetBidsByProvider(ctx context.Context, providerID int) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE provider_id = ? ORDER BY created_at DESC`
	return r.queryBids(ctx, query, providerID)
}

func (r *BidRepository) queryBids(ctx context.Context, query string, args ...any) ([]models.Bid, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// AcceptBid marks the winner, rejects every sibling bid, assigns the request
// and creates the booking in one transaction so readers never observe a
// half-applied acceptance. The unique index on bookings(bid_id) makes a
// concurrent duplicate accept fail deterministically.
func (r *BidRepository) AcceptBid(ctx context.Context, bidID int) (models.ServiceRequest, models.Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	defer tx.Rollback()

	bid, err := scanBid(tx.QueryRowContext(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = ? FOR UPDATE`, bidID))
	if err == sql.ErrNoRows {
		return models.ServiceRequest{}, models.Booking{}, models.ErrBidNotFound
	}
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id = ? FOR UPDATE`
	sr, err := scanServiceRequest(tx.QueryRowContext(ctx, query, bid.ServiceRequestID))
	if err == sql.ErrNoRows {
		return models.ServiceRequest{}, models.Booking{}, models.ErrRequestNotFound
	}
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	// idempotency guard against duplicate accept clicks
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE bid_id = ?`, bidID).Scan(&count); err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	if count > 0 {
		return models.ServiceRequest{}, models.Booking{}, models.ErrBookingExists
	}

	// only a pending bid on a not-yet-assigned request can win; a rejected
	// sibling can never be resurrected
	if bid.Status != models.BidStatusPending {
		return models.ServiceRequest{}, models.Booking{}, models.ErrInvalidStatus
	}
	if !fsm.CanRequestTransition(sr.Status, fsm.RequestAssigned) {
		return models.ServiceRequest{}, models.Booking{}, models.ErrInvalidStatus
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
        UPDATE service_requests
        SET assigned_provider_id = ?, assigned_provider_name = ?, accepted_bid_id = ?,
            final_amount = ?, status = ?, updated_at = ?
        WHERE id = ?
    `, bid.ProviderID, bid.ProviderName, bid.ID, bid.ProposedAmount, fsm.RequestAssigned, now, sr.ID); err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE bids SET status = ?, updated_at = ? WHERE id = ?`, models.BidStatusAccepted, now, bid.ID); err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE bids SET status = ?, updated_at = ? WHERE service_request_id = ? AND id <> ?`, models.BidStatusRejected, now, sr.ID, bid.ID); err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	booking := models.Booking{
		RequestID:    sr.ID,
		BidID:        &bid.ID,
		UserID:       sr.UserID,
		UserName:     sr.UserName,
		ProviderID:   bid.ProviderID,
		ProviderName: bid.ProviderName,
		AgreedPrice:  bid.ProposedAmount,
		Status:       fsm.BookingConfirmed,
		CreatedAt:    now,
	}
	booking, err = insertBooking(ctx, tx, booking)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.ServiceRequest{}, models.Booking{}, models.ErrBookingExists
		}
		return models.ServiceRequest{}, models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	sr.AssignedProviderID = &bid.ProviderID
	sr.AssignedProviderName = bid.ProviderName
	sr.AcceptedBidID = &bid.ID
	sr.FinalAmount = &bid.ProposedAmount
	sr.Status = fsm.RequestAssigned
	sr.UpdatedAt = &now
	return sr, booking, nil
}
