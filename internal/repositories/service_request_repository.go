package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"easyserve/internal/fsm"
	"easyserve/internal/models"
)

type ServiceRequestRepository struct {
	DB *sql.DB
}

const serviceRequestColumns = `
    id, user_id, user_name, category_id, category_name, description, address, images,
    request_type, fixed_amount, bidding_end_date, status,
    assigned_provider_id, assigned_provider_name, accepted_bid_id, final_amount,
    created_at, updated_at
`

func scanServiceRequest(row interface{ Scan(dest ...any) error }) (models.ServiceRequest, error) {
	var sr models.ServiceRequest
	var imagesJSON []byte
	var providerName sql.NullString
	err := row.Scan(
		&sr.ID, &sr.UserID, &sr.UserName, &sr.CategoryID, &sr.CategoryName,
		&sr.Description, &sr.Address, &imagesJSON,
		&sr.RequestType, &sr.FixedAmount, &sr.BiddingEndDate, &sr.Status,
		&sr.AssignedProviderID, &providerName, &sr.AcceptedBidID, &sr.FinalAmount,
		&sr.CreatedAt, &sr.UpdatedAt,
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	sr.AssignedProviderName = providerName.String
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &sr.Images); err != nil {
			return models.ServiceRequest{}, fmt.Errorf("failed to decode images json: %w", err)
		}
	}
	return sr, nil
}

func (r *ServiceRequestRepository) CreateServiceRequest(ctx context.Context, sr models.ServiceRequest) (models.ServiceRequest, error) {
	query := `
        INSERT INTO service_requests
            (user_id, user_name, category_id, category_name, description, address, images,
             request_type, fixed_amount, bidding_end_date, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	imagesJSON, err := json.Marshal(sr.Images)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		sr.UserID, sr.UserName, sr.CategoryID, sr.CategoryName,
		sr.Description, sr.Address, string(imagesJSON),
		sr.RequestType, sr.FixedAmount, sr.BiddingEndDate, fsm.RequestOpen, now,
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.ServiceRequest{}, err
	}
	sr.ID = int(id)
	sr.Status = fsm.RequestOpen
	sr.CreatedAt = now
	return sr, nil
}

func (r *ServiceRequestRepository) GetServiceRequestByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id = ?`
	sr, err := scanServiceRequest(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return models.ServiceRequest{}, models.ErrRequestNotFound
	}
	if err != nil {
		return models.ServiceRequest{}, err
	}
	return sr, nil
}

func (r *ServiceRequestRepository) GetServiceRequests(ctx context.Context, filter models.RequestFilter) ([]models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests`
	var conditions []string
	var args []any
	if filter.UserID != 0 {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Statuses)), ",")
		conditions = append(conditions, "status IN ("+placeholders+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if filter.RequestType != "" {
		conditions = append(conditions, "request_type = ?")
		args = append(args, filter.RequestType)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ServiceRequest
	for rows.Next() {
		sr, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, sr)
	}
	return requests, rows.Err()
}

// AcceptFixedRequest assigns a fixed price request to a provider and creates
// the booking in one transaction. The booking existence check plus the
// conditional status update guard against two providers accepting at once.
func (r *ServiceRequestRepository) AcceptFixedRequest(ctx context.Context, requestID, providerID int, providerName string) (models.ServiceRequest, models.Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	defer tx.Rollback()

	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id = ? FOR UPDATE`
	sr, err := scanServiceRequest(tx.QueryRowContext(ctx, query, requestID))
	if err == sql.ErrNoRows {
		return models.ServiceRequest{}, models.Booking{}, models.ErrRequestNotFound
	}
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	if sr.RequestType != models.RequestTypeFixed {
		return models.ServiceRequest{}, models.Booking{}, models.ErrNotFixedRequest
	}
	if sr.Status != fsm.RequestOpen {
		return models.ServiceRequest{}, models.Booking{}, models.ErrRequestAssigned
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE request_id = ? AND provider_id = ?`, requestID, providerID).Scan(&count); err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	if count > 0 {
		return models.ServiceRequest{}, models.Booking{}, models.ErrBookingExists
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
        UPDATE service_requests
        SET assigned_provider_id = ?, assigned_provider_name = ?, final_amount = fixed_amount,
            status = ?, updated_at = ?
        WHERE id = ? AND status = ?
    `, providerID, providerName, fsm.RequestAssigned, now, requestID, fsm.RequestOpen)
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	if rows == 0 {
		return models.ServiceRequest{}, models.Booking{}, models.ErrRequestAssigned
	}

	booking := models.Booking{
		RequestID:    sr.ID,
		UserID:       sr.UserID,
		UserName:     sr.UserName,
		ProviderID:   providerID,
		ProviderName: providerName,
		AgreedPrice:  *sr.FixedAmount,
		Status:       fsm.BookingConfirmed,
		CreatedAt:    now,
	}
	booking, err = insertBooking(ctx, tx, booking)
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}

	sr.AssignedProviderID = &providerID
	sr.AssignedProviderName = providerName
	sr.FinalAmount = sr.FixedAmount
	sr.Status = fsm.RequestAssigned
	sr.UpdatedAt = &now
	return sr, booking, nil
}

// CancelExpiredBiddingRequests cancels open bidding requests whose window has
// passed without attracting a single bid. Used by the background cleaner.
func (r *ServiceRequestRepository) CancelExpiredBiddingRequests(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE service_requests
        SET status = ?, updated_at = ?
        WHERE request_type = ? AND status = ? AND bidding_end_date IS NOT NULL AND bidding_end_date < ?
    `, fsm.RequestCancelled, now, models.RequestTypeBidding, fsm.RequestOpen, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
