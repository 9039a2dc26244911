// Package model mirrors the storage tables. Table names are not fixed on the
// structs: every logical table resolves to either the production or the
// "_testing" namespace at query time, so repositories always go through the
// namespace resolver instead of gorm's static TableName convention.
package model

import (
	"time"

	"github.com/google/uuid"
)

// CustomerModel mirrors the 'customers' / 'customers_testing' tables.
// Optional fields are pointers so absent values stay NULL, which is what the
// fill-if-blank merge policy tests against.
type CustomerModel struct {
	CustomerID          uuid.UUID `gorm:"column:customer_id;type:uuid;primaryKey"`
	PhoneNumber         string    `gorm:"column:phone_number;type:varchar(24);uniqueIndex;not null"`
	Name                *string   `gorm:"column:name;type:varchar(255)"`
	Email               *string   `gorm:"column:email;type:varchar(255)"`
	Address             *string   `gorm:"column:address;type:text"`
	CompanyName         *string   `gorm:"column:company_name;type:varchar(255)"`
	IsVIP               bool      `gorm:"column:is_vip;not null;default:false"`
	IsReturningCustomer bool      `gorm:"column:is_returning_customer;not null;default:false"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}
