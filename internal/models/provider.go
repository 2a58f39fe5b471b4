package models

import "time"

type Provider struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Password     string     `json:"password,omitempty"`
	CategoryID   int        `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Price        float64    `json:"price"`
	Area         string     `json:"area"`
	Description  string     `json:"description"`
	Rating       float64    `json:"rating"`
	AvatarPath   *string    `json:"avatar_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type ProviderFilterRequest struct {
	CategoryID int     `json:"category_id"`
	Area       string  `json:"area"`
	MaxPrice   float64 `json:"max_price"`
}
