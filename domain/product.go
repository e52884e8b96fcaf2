package domain

import "time"

// Product lives in the document store, not in postgres.
type Product struct {
	ID          string         `bson:"_id" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64        `bson:"price" json:"price"`
	Tags        []string       `bson:"tags" json:"tags"`
	Attributes  map[string]any `bson:"attributes,omitempty" json:"attributes,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
}
