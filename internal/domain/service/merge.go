package service

import (
	"strings"

	"intake/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

// emailValidate is shared across merges; validator instances are safe for
// concurrent use and cache struct metadata internally.
var emailValidate = validator.New()

// placeholderEmails are tokens that show up in spreadsheets where an email
// should be. They count as absent, never as a value worth storing.
var placeholderEmails = map[string]struct{}{
	"-":   {},
	"--":  {},
	"---": {},
}

// ValidEmail reports whether the candidate is a usable email value: non-empty,
// not a known placeholder token, and shaped like an address.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	if _, ok := placeholderEmails[email]; ok {
		return false
	}

	return emailValidate.Var(email, "email") == nil
}

// MergeCustomer applies the field-level merge policy: scalar fields are
// fill-if-blank, boolean flags are monotonic OR. The policy is
// source-agnostic. It returns the merged entity and whether anything changed.
func MergeCustomer(existing, incoming entity.Customer) (entity.Customer, bool) {
	merged := existing
	changed := false

	fill := func(current *string, candidate string) {
		candidate = strings.TrimSpace(candidate)
		if *current == "" && candidate != "" {
			*current = candidate
			changed = true
		}
	}

	fill(&merged.Name, incoming.Name)
	fill(&merged.Address, incoming.Address)
	fill(&merged.CompanyName, incoming.CompanyName)
	if ValidEmail(incoming.Email) {
		fill(&merged.Email, incoming.Email)
	}

	// Once true, stays true; incoming data can only promote.
	if incoming.IsVIP && !merged.IsVIP {
		merged.IsVIP = true
		changed = true
	}
	if incoming.IsReturningCustomer && !merged.IsReturningCustomer {
		merged.IsReturningCustomer = true
		changed = true
	}

	return merged, changed
}

// CustomerUpdates computes the sparse field map the storage layer should
// apply for an existing customer, following the same merge policy as
// MergeCustomer. An empty map means nothing to update.
func CustomerUpdates(existing, incoming entity.Customer) map[string]any {
	merged, changed := MergeCustomer(existing, incoming)
	if !changed {
		return nil
	}

	updates := make(map[string]any)
	if merged.Name != existing.Name {
		updates["name"] = merged.Name
	}
	if merged.Email != existing.Email {
		updates["email"] = merged.Email
	}
	if merged.Address != existing.Address {
		updates["address"] = merged.Address
	}
	if merged.CompanyName != existing.CompanyName {
		updates["company_name"] = merged.CompanyName
	}
	if merged.IsVIP != existing.IsVIP {
		updates["is_vip"] = true
	}
	if merged.IsReturningCustomer != existing.IsReturningCustomer {
		updates["is_returning_customer"] = true
	}

	return updates
}
