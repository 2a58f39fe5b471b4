package repositories

import (
	"context"
	"database/sql"
	"time"

	"easyserve/internal/models"
)

type CategoryRepository struct {
	DB *sql.DB
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	query := `INSERT INTO categories (name, icon, image_path, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query, category.Name, category.Icon, category.ImagePath, now)
	if err != nil {
		return models.Category{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Category{}, err
	}
	category.ID = int(id)
	category.CreatedAt = now
	return category, nil
}

func (r *CategoryRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, name, icon, image_path, created_at, updated_at FROM categories ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.ImagePath, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int) (models.Category, error) {
	query := `SELECT id, name, icon, image_path, created_at, updated_at FROM categories WHERE id = ?`
	var c models.Category
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Icon, &c.ImagePath, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Category{}, models.ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	query := `UPDATE categories SET name = ?, icon = ?, image_path = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, query, category.Name, category.Icon, category.ImagePath, category.ID)
	if err != nil {
		return models.Category{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.Category{}, err
	}
	if rows == 0 {
		return models.Category{}, models.ErrCategoryNotFound
	}
	return r.GetCategoryByID(ctx, category.ID)
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) CountCategories(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	return count, err
}
