package model

import "time"

// Category represents a row in the `categories` table. Names are unique.
type Category struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// ProductIDs lists the products removed along with the category. Only
	// a delete fills it.
	ProductIDs []uint64 `json:"-"`
}

// NewCategory is the column set written when a category is created.
type NewCategory struct {
	Name string
}

// CategoryPatch is a partial update of a categories row.
type CategoryPatch struct {
	Name *string
}
