package catalog

import "time"

type Sweet struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows a catalog listing. Search matches name OR category;
// the remaining fields are ANDed. Substring matches are case-sensitive,
// price bounds inclusive.
type Filter struct {
	Search   string
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// Patch is a partial update. Nil fields are left untouched, which is
// distinct from a field explicitly set to its zero value.
type Patch struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}
