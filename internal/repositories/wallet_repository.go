package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"easyserve/internal/models"
)

type WalletRepository struct {
	DB *sql.DB
}

const walletColumns = `
    id, owner_id, owner_type, balance, held_balance, total_earned, total_spent,
    last_withdrawal, bank_details, created_at, updated_at
`

func scanWallet(row interface{ Scan(dest ...any) error }) (models.Wallet, error) {
	var w models.Wallet
	var bankJSON []byte
	err := row.Scan(
		&w.ID, &w.OwnerID, &w.OwnerType, &w.Balance, &w.HeldBalance, &w.TotalEarned, &w.TotalSpent,
		&w.LastWithdrawal, &bankJSON, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return models.Wallet{}, err
	}
	if len(bankJSON) > 0 {
		if err := json.Unmarshal(bankJSON, &w.BankDetails); err != nil {
			return models.Wallet{}, fmt.Errorf("failed to decode bank details json: %w", err)
		}
	}
	return w, nil
}

// ensureWallet creates a zero-balance wallet for the owner if one does not
// exist yet and returns its id. Wallets are created lazily on first use.
func ensureWallet(ctx context.Context, tx *sql.Tx, ownerID int, ownerType string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE owner_id = ? AND owner_type = ?`, ownerID, ownerType).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, `INSERT INTO wallets (owner_id, owner_type, created_at) VALUES (?, ?, ?)`, ownerID, ownerType, time.Now())
	if err != nil {
		if isDuplicateKeyError(err) {
			// lost the creation race, the row is there now
			err = tx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE owner_id = ? AND owner_type = ?`, ownerID, ownerType).Scan(&id)
			return id, err
		}
		return 0, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(lastID), nil
}

func insertWalletEntry(ctx context.Context, tx *sql.Tx, walletID int, entryType string, amount float64, reference, status string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO wallet_entries (wallet_id, type, amount, reference, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, walletID, entryType, amount, reference, status, now)
	return err
}

// GetOrCreateWallet returns the owner's wallet with its ledger, creating a
// zero-balance one on first access.
func (r *WalletRepository) GetOrCreateWallet(ctx context.Context, ownerID int, ownerType string) (models.Wallet, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Wallet{}, err
	}
	defer tx.Rollback()

	id, err := ensureWallet(ctx, tx, ownerID, ownerType)
	if err != nil {
		return models.Wallet{}, err
	}
	w, err := scanWallet(tx.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = ?`, id))
	if err != nil {
		return models.Wallet{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Wallet{}, err
	}

	entries, err := r.GetEntries(ctx, w.ID)
	if err != nil {
		return models.Wallet{}, err
	}
	w.Transactions = entries
	return w, nil
}

func (r *WalletRepository) GetWalletByOwner(ctx context.Context, ownerID int, ownerType string) (models.Wallet, error) {
	w, err := scanWallet(r.DB.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = ? AND owner_type = ?`, ownerID, ownerType))
	if err == sql.ErrNoRows {
		return models.Wallet{}, models.ErrWalletNotFound
	}
	if err != nil {
		return models.Wallet{}, err
	}
	return w, nil
}

func (r *WalletRepository) GetEntries(ctx context.Context, walletID int) ([]models.WalletEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, wallet_id, type, amount, reference, status, created_at
        FROM wallet_entries WHERE wallet_id = ? ORDER BY id DESC
    `, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.WalletEntry{}
	for rows.Next() {
		var e models.WalletEntry
		if err := rows.Scan(&e.ID, &e.WalletID, &e.Type, &e.Amount, &e.Reference, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Withdraw debits the available balance. Policy checks happen in the service
// layer; the decrement here is a single conditional UPDATE so concurrent
// withdrawals against the same wallet serialize at the database and can never
// drive the balance negative.
func (r *WalletRepository) Withdraw(ctx context.Context, ownerID int, amount float64) (models.Wallet, error) {
	if amount <= 0 {
		return models.Wallet{}, models.ErrInvalidAmount
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Wallet{}, err
	}
	defer tx.Rollback()

	w, err := scanWallet(tx.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE owner_id = ? AND owner_type = ? FOR UPDATE`, ownerID, models.WalletOwnerProvider))
	if err == sql.ErrNoRows {
		return models.Wallet{}, models.ErrWalletNotFound
	}
	if err != nil {
		return models.Wallet{}, err
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
        UPDATE wallets
        SET balance = balance - ?, last_withdrawal = ?, updated_at = ?
        WHERE id = ? AND balance >= ?
    `, amount, now, now, w.ID, amount)
	if err != nil {
		return models.Wallet{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return models.Wallet{}, err
	}
	if rows == 0 {
		return models.Wallet{}, models.ErrInsufficientFunds
	}

	if err := insertWalletEntry(ctx, tx, w.ID, models.WalletEntryDebit, amount, "withdrawal", "withdrawn", now); err != nil {
		return models.Wallet{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Wallet{}, err
	}

	w.Balance -= amount
	w.LastWithdrawal = &now
	return w, nil
}

func (r *WalletRepository) SaveBankDetails(ctx context.Context, ownerID int, ownerType string, details models.BankDetails) (models.Wallet, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Wallet{}, err
	}
	defer tx.Rollback()

	id, err := ensureWallet(ctx, tx, ownerID, ownerType)
	if err != nil {
		return models.Wallet{}, err
	}
	bankJSON, err := json.Marshal(details)
	if err != nil {
		return models.Wallet{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE wallets SET bank_details = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(bankJSON), id); err != nil {
		return models.Wallet{}, err
	}
	w, err := scanWallet(tx.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = ?`, id))
	if err != nil {
		return models.Wallet{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Wallet{}, err
	}
	return w, nil
}
