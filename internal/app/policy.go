package app

import (
	"context"

	"github.com/neomorfeo/skucatalog/internal/domain"
)

// applyUpdate validates u against current and returns the record to persist.
// Checks run in a fixed order: field editability, then transition legality,
// then the commercial-description revert rule, which wins over any status
// the caller asked for.
func applyUpdate(ctx context.Context, validator domain.TransitionValidator, current domain.SKU, u domain.Update) (domain.SKU, error) {
	var locked []domain.Field
	for _, f := range u.Fields() {
		if !domain.CanEditField(current.Status, f) {
			locked = append(locked, f)
		}
	}
	if len(locked) > 0 {
		return domain.SKU{}, &domain.FieldNotEditableError{Status: current.Status, Fields: locked}
	}

	next := current.Status
	if u.Status != nil && *u.Status != current.Status {
		if err := validator.Validate(ctx, current.Status, *u.Status); err != nil {
			return domain.SKU{}, err
		}
		next = *u.Status
	}

	if current.Status == domain.StatusRegistrationComplete &&
		u.CommercialDescription != nil &&
		*u.CommercialDescription != current.CommercialDescription {
		next = domain.StatusPreRegistration
	}

	out := current
	if u.Description != nil {
		out.Description = *u.Description
	}
	if u.CommercialDescription != nil {
		out.CommercialDescription = *u.CommercialDescription
	}
	if u.Code != nil {
		out.Code = *u.Code
	}
	out.Status = next

	return out, nil
}
