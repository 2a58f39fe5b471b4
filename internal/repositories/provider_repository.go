package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"easyserve/internal/models"
)

type ProviderRepository struct {
	DB *sql.DB
}

func (r *ProviderRepository) CreateProvider(ctx context.Context, p models.Provider) (models.Provider, error) {
	query := `
        INSERT INTO providers (name, email, phone, password, category_id, category_name, price, area, description, rating, avatar_path, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		p.Name, p.Email, p.Phone, p.Password, p.CategoryID, p.CategoryName,
		p.Price, p.Area, p.Description, p.Rating, p.AvatarPath, now,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Provider{}, models.ErrDuplicateEmail
		}
		return models.Provider{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Provider{}, err
	}
	p.ID = int(id)
	p.CreatedAt = now
	return p, nil
}

func (r *ProviderRepository) GetProviderByEmail(ctx context.Context, email string) (models.Provider, error) {
	query := `
        SELECT id, name, email, phone, password, category_id, category_name, price, area, description, rating, avatar_path, created_at, updated_at
        FROM providers WHERE email = ?
    `
	var p models.Provider
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Password, &p.CategoryID, &p.CategoryName,
		&p.Price, &p.Area, &p.Description, &p.Rating, &p.AvatarPath, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Provider{}, models.ErrProviderNotFound
	}
	if err != nil {
		return models.Provider{}, err
	}
	return p, nil
}

func (r *ProviderRepository) GetProviderByID(ctx context.Context, id int) (models.Provider, error) {
	query := `
        SELECT id, name, email, phone, category_id, category_name, price, area, description, rating, avatar_path, created_at, updated_at
        FROM providers WHERE id = ?
    `
	var p models.Provider
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.CategoryID, &p.CategoryName,
		&p.Price, &p.Area, &p.Description, &p.Rating, &p.AvatarPath, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Provider{}, models.ErrProviderNotFound
	}
	if err != nil {
		return models.Provider{}, err
	}
	return p, nil
}

func (r *ProviderRepository) GetProviders(ctx context.Context, filter models.ProviderFilterRequest) ([]models.Provider, error) {
	query := `
        SELECT id, name, email, phone, category_id, category_name, price, area, description, rating, avatar_path, created_at, updated_at
        FROM providers
    `
	var conditions []string
	var args []any
	if filter.CategoryID != 0 {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Area != "" {
		conditions = append(conditions, "area = ?")
		args = append(args, filter.Area)
	}
	if filter.MaxPrice > 0 {
		conditions = append(conditions, "price <= ?")
		args = append(args, filter.MaxPrice)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY rating DESC, created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []models.Provider
	for rows.Next() {
		var p models.Provider
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.Phone, &p.CategoryID, &p.CategoryName,
			&p.Price, &p.Area, &p.Description, &p.Rating, &p.AvatarPath, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func (r *ProviderRepository) CountProviders(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM providers`).Scan(&count)
	return count, err
}
