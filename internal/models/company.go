package models

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a borrower under analysis
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	Currency  string    `json:"currency"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks required company fields
func (c *Company) Validate() error {
	if c.Name == "" {
		return ErrCompanyNameRequired
	}
	return nil
}
