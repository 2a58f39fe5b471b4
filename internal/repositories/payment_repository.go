package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"easyserve/internal/escrow"
	"easyserve/internal/fsm"
	"easyserve/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

const transactionColumns = `
    id, booking_id, user_id, provider_id, amount, platform_fee, provider_amount,
    status, payment_method, paid_at, held_at, released_at, refunded_at,
    dispute_reason, created_at
`

func scanTransaction(row interface{ Scan(dest ...any) error }) (models.Transaction, error) {
	var t models.Transaction
	var reason sql.NullString
	err := row.Scan(
		&t.ID, &t.BookingID, &t.UserID, &t.ProviderID, &t.Amount, &t.PlatformFee, &t.ProviderAmount,
		&t.Status, &t.PaymentMethod, &t.PaidAt, &t.HeldAt, &t.ReleasedAt, &t.RefundedAt,
		&reason, &t.CreatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	t.DisputeReason = reason.String
	return t, nil
}

// Initiate records a payment for a booking and moves the provider's net amount
// into escrow. There is no live gateway: the transaction is created pending and
// immediately advanced to held, standing in for a settlement webhook. The
// conditional is_paid update makes a duplicate initiation fail instead of
// double-charging.
func (r *PaymentRepository) Initiate(ctx context.Context, booking models.Booking, split escrow.Split, method string) (models.Transaction, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, err
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
        INSERT INTO transactions (booking_id, user_id, provider_id, amount, platform_fee, provider_amount, status, payment_method, paid_at, held_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, booking.ID, booking.UserID, booking.ProviderID,
		split.Amount, split.PlatformFee, split.ProviderAmount,
		fsm.TxHeld, method, now, now, now)
	if err != nil {
		return models.Transaction{}, err
	}
	txnID, err := result.LastInsertId()
	if err != nil {
		return models.Transaction{}, err
	}

	res, err := tx.ExecContext(ctx, `
        UPDATE bookings SET is_paid = TRUE, transaction_id = ?, updated_at = ? WHERE id = ? AND is_paid = FALSE
    `, txnID, now, booking.ID)
	if err != nil {
		return models.Transaction{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return models.Transaction{}, err
	}
	if rows == 0 {
		return models.Transaction{}, models.ErrAlreadyPaid
	}

	// escrow: provider's net amount is held, payer's spend is recorded
	providerWalletID, err := ensureWallet(ctx, tx, booking.ProviderID, models.WalletOwnerProvider)
	if err != nil {
		return models.Transaction{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE wallets SET held_balance = held_balance + ?, updated_at = ? WHERE id = ?`, split.ProviderAmount, now, providerWalletID); err != nil {
		return models.Transaction{}, err
	}

	userWalletID, err := ensureWallet(ctx, tx, booking.UserID, models.WalletOwnerUser)
	if err != nil {
		return models.Transaction{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE wallets SET total_spent = total_spent + ?, updated_at = ? WHERE id = ?`, split.Amount, now, userWalletID); err != nil {
		return models.Transaction{}, err
	}
	if err := insertWalletEntry(ctx, tx, userWalletID, models.WalletEntryDebit, split.Amount, strconv.Itoa(booking.ID), "held", now); err != nil {
		return models.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		ID:             int(txnID),
		BookingID:      booking.ID,
		UserID:         booking.UserID,
		ProviderID:     booking.ProviderID,
		Amount:         split.Amount,
		PlatformFee:    split.PlatformFee,
		ProviderAmount: split.ProviderAmount,
		Status:         fsm.TxHeld,
		PaymentMethod:  method,
		PaidAt:         &now,
		HeldAt:         &now,
		CreatedAt:      now,
	}, nil
}

// Release moves the held net amount into the provider's available balance and
// finalizes the transaction. The fee-netting model is applied uniformly: only
// the fee-adjusted provider amount recorded at initiation ever moves.
func (r *PaymentRepository) Release(ctx context.Context, bookingID int) (models.Transaction, models.Wallet, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}
	defer tx.Rollback()

	booking, err := scanBooking(tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, bookingID))
	if err == sql.ErrNoRows {
		return models.Transaction{}, models.Wallet{}, models.ErrBookingNotFound
	}
	if err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}
	if booking.TransactionID == nil {
		return models.Transaction{}, models.Wallet{}, models.ErrTransactionNotFound
	}

	txn, err := scanTransaction(tx.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ? FOR UPDATE`, *booking.TransactionID))
	if err == sql.ErrNoRows {
		return models.Transaction{}, models.Wallet{}, models.ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}
	if txn.Status != fsm.TxHeld {
		return models.Transaction{}, models.Wallet{}, models.ErrInvalidStatus
	}

	if err := fsm.ApplyBooking(ctx, tx, booking.ID, booking.Status, fsm.BookingPaymentReleased); err != nil {
		if err == sql.ErrNoRows {
			return models.Transaction{}, models.Wallet{}, models.ErrInvalidStatus
		}
		return models.Transaction{}, models.Wallet{}, err
	}

	wallet, err := scanWallet(tx.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = ? AND owner_type = ? FOR UPDATE`, booking.ProviderID, models.WalletOwnerProvider))
	if err == sql.ErrNoRows {
		return models.Transaction{}, models.Wallet{}, models.ErrWalletNotFound
	}
	if err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}

	// the row is locked, so the balances computed in memory can be written
	// back as absolute values
	split := escrow.Split{Amount: txn.Amount, PlatformFee: txn.PlatformFee, ProviderAmount: txn.ProviderAmount}
	if !escrow.Release(&wallet, split) {
		return models.Transaction{}, models.Wallet{}, models.ErrInsufficientFunds
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
        UPDATE wallets
        SET held_balance = ?, balance = ?, total_earned = ?, updated_at = ?
        WHERE id = ?
    `, wallet.HeldBalance, wallet.Balance, wallet.TotalEarned, now, wallet.ID); err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE transactions SET status = ?, released_at = ? WHERE id = ? AND status = ?`, fsm.TxCompleted, now, txn.ID, fsm.TxHeld); err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}
	if err := insertWalletEntry(ctx, tx, wallet.ID, models.WalletEntryCredit, txn.ProviderAmount, strconv.Itoa(booking.ID), "completed", now); err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Transaction{}, models.Wallet{}, err
	}

	txn.Status = fsm.TxCompleted
	txn.ReleasedAt = &now
	return txn, wallet, nil
}

// Dispute freezes a booking and its transaction. No funds move; resolution is
// a manual process.
func (r *PaymentRepository) Dispute(ctx context.Context, bookingID int, reason string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	booking, err := scanBooking(tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, bookingID))
	if err == sql.ErrNoRows {
		return models.ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	if err := fsm.ApplyBooking(ctx, tx, booking.ID, booking.Status, fsm.BookingDisputed); err != nil {
		if err == sql.ErrNoRows {
			return models.ErrInvalidStatus
		}
		return err
	}

	if booking.TransactionID != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE transactions SET status = ?, dispute_reason = ? WHERE id = ? AND status = ?`, fsm.TxDisputed, reason, *booking.TransactionID, fsm.TxHeld); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PaymentRepository) GetTransactionByBooking(ctx context.Context, bookingID int) (models.Transaction, error) {
	t, err := scanTransaction(r.DB.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE booking_id = ?`, bookingID))
	if err == sql.ErrNoRows {
		return models.Transaction{}, models.ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

// GetTransactionHistory lists the caller's transactions, newest first. The
// owner type picks the side of the transaction the caller appears on.
func (r *PaymentRepository) GetTransactionHistory(ctx context.Context, ownerID int, ownerType string) ([]models.Transaction, error) {
	column := "user_id"
	if ownerType == models.WalletOwnerProvider {
		column = "provider_id"
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE `+column+` = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
