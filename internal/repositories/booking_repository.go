package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"easyserve/internal/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `
    id, request_id, bid_id, user_id, user_name, provider_id, provider_name,
    agreed_price, status, is_paid, transaction_id,
    completed_by_provider, completed_by_user, completed_at,
    rating, review, created_at, updated_at
`

func scanBooking(row interface{ Scan(dest ...any) error }) (models.Booking, error) {
	var b models.Booking
	var review sql.NullString
	err := row.Scan(
		&b.ID, &b.RequestID, &b.BidID, &b.UserID, &b.UserName, &b.ProviderID, &b.ProviderName,
		&b.AgreedPrice, &b.Status, &b.IsPaid, &b.TransactionID,
		&b.CompletedByProvider, &b.CompletedByUser, &b.CompletedAt,
		&b.Rating, &review, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.Review = review.String
	return b, nil
}

// insertBooking is shared with the acceptance transactions in the bid and
// service request repositories.
func insertBooking(ctx context.Context, tx *sql.Tx, b models.Booking) (models.Booking, error) {
	result, err := tx.ExecContext(ctx, `
        INSERT INTO bookings (request_id, bid_id, user_id, user_name, provider_id, provider_name, agreed_price, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, b.RequestID, b.BidID, b.UserID, b.UserName, b.ProviderID, b.ProviderName, b.AgreedPrice, b.Status, b.CreatedAt)
	if err != nil {
		return models.Booking{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	b.ID = int(id)
	return b, nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback()

	b.CreatedAt = time.Now()
	b, err = insertBooking(ctx, tx, b)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Booking{}, models.ErrBookingExists
		}
		if isForeignKeyConstraintError(err) {
			return models.Booking{}, models.ErrRequestNotFound
		}
		return models.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id int) (models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return models.Booking{}, models.ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) GetBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var conditions []string
	var args []any
	if filter.UserID != 0 {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.ProviderID != 0 {
		conditions = append(conditions, "provider_id = ?")
		args = append(args, filter.ProviderID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Statuses)), ",")
		conditions = append(conditions, "status IN ("+placeholders+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
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

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UpdateProgress persists service-progress mutations made by the lifecycle
// rules. The conditional status clause rejects a writer whose in-memory copy
// went stale, so concurrent transitions serialize at the database.
func (r *BookingRepository) UpdateProgress(ctx context.Context, b models.Booking, fromStatus string) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE bookings
        SET status = ?, completed_by_provider = ?, completed_by_user = ?, completed_at = ?,
            rating = ?, review = ?, updated_at = ?
        WHERE id = ? AND status = ?
    `, b.Status, b.CompletedByProvider, b.CompletedByUser, b.CompletedAt,
		b.Rating, b.Review, time.Now(), b.ID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrInvalidStatus
	}
	return nil
}

func (r *BookingRepository) CountBookings(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count)
	return count, err
}

func (r *BookingRepository) CreateMessage(ctx context.Context, msg models.BookingMessage) (models.BookingMessage, error) {
	result, err := r.DB.ExecContext(ctx, `
        INSERT INTO booking_messages (booking_id, sender_role, sender_id, text, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, msg.BookingID, msg.SenderRole, msg.SenderID, msg.Text, msg.CreatedAt)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return models.BookingMessage{}, models.ErrBookingNotFound
		}
		return models.BookingMessage{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.BookingMessage{}, err
	}
	msg.ID = int(id)
	return msg, nil
}

func (r *BookingRepository) GetMessages(ctx context.Context, bookingID int) ([]models.BookingMessage, error) {
	query := `
        SELECT id, booking_id, sender_role, sender_id, text, created_at
        FROM booking_messages WHERE booking_id = ? ORDER BY id ASC
    `
	rows, err := r.DB.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.BookingMessage{}
	for rows.Next() {
		var m models.BookingMessage
		if err := rows.Scan(&m.ID, &m.BookingID, &m.SenderRole, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
