package model

import "time"

// Product represents a row in the `products` table. Prices are kept in
// integer cents. Deleting the owning category cascades to its products at
// the store level.
type Product struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	CategoryID  uint64    `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewProduct is the column set written when a product is created.
type NewProduct struct {
	Name        string
	Description *string
	PriceCents  int64
	Stock       int
	CategoryID  uint64
}

// ProductPatch is a partial update of a products row.
type ProductPatch struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Stock       *int
	CategoryID  *uint64
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PriceCents == nil && p.Stock == nil && p.CategoryID == nil
}
