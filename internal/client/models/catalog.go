package models

import "time"

type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       Money      `json:"price"`
	Stock       int        `json:"stock"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	IsActive    Flag       `json:"is_active"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ProductInput is used for both create and update; on update nil fields
// are left unchanged by the server.
type ProductInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *Money  `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsActive    *Flag   `json:"is_active,omitempty"`
}
