package domain

import "time"

type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	LongDescription string    `json:"longDescription,omitempty"`
	Stock           int       `json:"stock"`
	PriceCents      int64     `json:"priceCents"`
	Images          []Image   `json:"-"`
	ImagesSrc       []string  `json:"imagesSrc"`
	Trending        bool      `json:"trending"`
	CreatedAt       time.Time `json:"createdAt"`
}
