// Package customer provides typed access to the customers table.
package customer

import (
	"context"
	"time"
)

// Customer is one row of the customers table
type Customer struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Age           *int      `db:"age"`
	PreferPackage *int      `db:"prefer_package"`
	CreatedAt     time.Time `db:"created_at"`
}

// CreateParams carries the caller-supplied fields of a new customer
type CreateParams struct {
	Name          string
	Email         string
	Age           *int
	PreferPackage *int
}

// UpdateParams carries a partial update. A nil field keeps the stored value.
type UpdateParams struct {
	Name          *string
	Email         *string
	Age           *int
	PreferPackage *int
}

// IsEmpty reports whether no field was supplied
func (p UpdateParams) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && p.PreferPackage == nil
}

// Apply returns current with every supplied field overwritten
func (p UpdateParams) Apply(current Customer) Customer {
	merged := current

	if p.Name != nil {
		merged.Name = *p.Name
	}

	if p.Email != nil {
		merged.Email = *p.Email
	}

	if p.Age != nil {
		merged.Age = p.Age
	}

	if p.PreferPackage != nil {
		merged.PreferPackage = p.PreferPackage
	}

	return merged
}

// Store is the contract the customer tools depend on. Every method degrades to
// an empty, nil or false result on failure; not-found and store errors are not
// distinguished by the return value.
type Store interface {
	// ListAll returns every customer in store order
	ListAll(ctx context.Context) []Customer

	// GetByID returns the customer with id, or nil
	GetByID(ctx context.Context, id int64) *Customer

	// SearchByName returns customers whose name contains fragment, ignoring case
	SearchByName(ctx context.Context, fragment string) []Customer

	// Create inserts a customer and returns the stored row, or nil
	Create(ctx context.Context, params CreateParams) *Customer

	// Update merges params over the stored row and rewrites it, returning the new row or nil
	Update(ctx context.Context, id int64, params UpdateParams) *Customer

	// Delete removes the customer and reports whether a row was deleted
	Delete(ctx context.Context, id int64) bool
}
