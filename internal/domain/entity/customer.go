// Package entity contains the core business objects of the project.
package entity

import (
	"github.com/google/uuid"
)

// Customer is the central entity of the reconciliation engine. Every import
// source resolves to a Customer through the canonical phone number, which is
// unique per table namespace. All other fields are optional and are only ever
// filled in, never overwritten, once present.
type Customer struct {
	CustomerID          uuid.UUID `json:"customer_id"`           // Opaque identifier, assigned on first persistence.
	PhoneNumber         string    `json:"phone_number"`          // Canonical phone key, e.g. "+8801712345678". Mandatory.
	Name                string    `json:"name"`                  // Display name. Empty when unknown.
	Email               string    `json:"email"`                 // Contact email. Empty when unknown or a placeholder.
	Address             string    `json:"address"`               // Free-form postal address.
	CompanyName         string    `json:"company_name"`          // Company from business cards or spreadsheets.
	IsVIP               bool      `json:"is_vip"`                // Promote-only VIP flag.
	IsReturningCustomer bool      `json:"is_returning_customer"` // Promote-only repeat-visit flag.
}
