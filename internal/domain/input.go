package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxDescriptionLength = 500
	MaxCodeLength        = 50
)

// NewSKUInput carries the caller-supplied fields for creating a SKU.
// It has no Status: every SKU starts in PRE_REGISTRATION.
type NewSKUInput struct {
	Description           string `json:"description"`
	CommercialDescription string `json:"commercialDescription"`
	Code                  string `json:"code"`
}

// Validate checks required fields and length bounds.
func (in NewSKUInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Description, validation.Required, validation.RuneLength(1, MaxDescriptionLength)),
		validation.Field(&in.CommercialDescription, validation.Required, validation.RuneLength(1, MaxDescriptionLength)),
		validation.Field(&in.Code, validation.Required, validation.RuneLength(1, MaxCodeLength)),
	)
	if err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// Update is a partial change to a SKU. Nil fields are not part of the
// proposal.
type Update struct {
	Description           *string `json:"description"`
	CommercialDescription *string `json:"commercialDescription"`
	Code                  *string `json:"code"`
	Status                *Status `json:"status"`
}

// Fields returns the non-status fields present in the proposal, in a stable
// order.
func (u Update) Fields() []Field {
	var out []Field
	if u.Description != nil {
		out = append(out, FieldDescription)
	}
	if u.CommercialDescription != nil {
		out = append(out, FieldCommercialDescription)
	}
	if u.Code != nil {
		out = append(out, FieldCode)
	}
	return out
}

// Validate checks the shape of the proposal. Present text fields must be
// non-empty and within bounds; a present status must be a known value.
func (u Update) Validate() error {
	known := make([]any, len(Statuses))
	for i, s := range Statuses {
		known[i] = s
	}

	err := validation.ValidateStruct(&u,
		validation.Field(&u.Description, validation.NilOrNotEmpty, validation.RuneLength(1, MaxDescriptionLength)),
		validation.Field(&u.CommercialDescription, validation.NilOrNotEmpty, validation.RuneLength(1, MaxDescriptionLength)),
		validation.Field(&u.Code, validation.NilOrNotEmpty, validation.RuneLength(1, MaxCodeLength)),
		validation.Field(&u.Status, validation.NilOrNotEmpty, validation.In(known...)),
	)
	if err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
