package domain

import (
	"slices"
	"time"
)

// Status represents the lifecycle state of a SKU.
type Status string

const (
	StatusPreRegistration      Status = "PRE_REGISTRATION"
	StatusRegistrationComplete Status = "REGISTRATION_COMPLETE"
	StatusActive               Status = "ACTIVE"
	StatusDeactivated          Status = "DEACTIVATED"
	StatusCanceled             Status = "CANCELED"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPreRegistration,
	StatusRegistrationComplete,
	StatusActive,
	StatusDeactivated,
	StatusCanceled,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Field names a SKU attribute that may be edited after creation.
type Field string

const (
	FieldDescription           Field = "description"
	FieldCommercialDescription Field = "commercialDescription"
	FieldCode                  Field = "code"
)

// Transition defines a valid state change from Src to Dst.
type Transition struct {
	Src Status
	Dst Status
}

// Transitions defines all valid state changes in the SKU lifecycle.
// This is domain knowledge consumed by the FSM adapter.
var Transitions = []Transition{
	{Src: StatusPreRegistration, Dst: StatusRegistrationComplete},
	{Src: StatusPreRegistration, Dst: StatusCanceled},
	{Src: StatusRegistrationComplete, Dst: StatusPreRegistration},
	{Src: StatusRegistrationComplete, Dst: StatusActive},
	{Src: StatusRegistrationComplete, Dst: StatusCanceled},
	{Src: StatusActive, Dst: StatusDeactivated},
	{Src: StatusDeactivated, Dst: StatusActive},
	{Src: StatusDeactivated, Dst: StatusPreRegistration},
}

// editableFields maps each status to the fields that may change while a SKU
// sits in it. Statuses absent from the map allow no edits.
var editableFields = map[Status][]Field{
	StatusPreRegistration:      {FieldDescription, FieldCommercialDescription, FieldCode},
	StatusRegistrationComplete: {FieldCommercialDescription},
}

// CanTransition reports whether from → to is an edge of the lifecycle.
// A self-transition is not an edge.
func CanTransition(from, to Status) bool {
	for _, t := range Transitions {
		if t.Src == from && t.Dst == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from s in one step.
func AllowedTransitions(s Status) []Status {
	out := make([]Status, 0, 3)
	for _, t := range Transitions {
		if t.Src == s {
			out = append(out, t.Dst)
		}
	}
	return out
}

// CanEditField reports whether field may be changed while in status s.
func CanEditField(s Status, field Field) bool {
	return slices.Contains(editableFields[s], field)
}

// EditableFields returns the fields that may be changed while in status s.
func EditableFields(s Status) []Field {
	return slices.Clone(editableFields[s])
}

// SKU is the catalog entity whose lifecycle the service manages.
type SKU struct {
	ID                    string
	Description           string
	CommercialDescription string
	Code                  string
	Status                Status
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewSKU creates a SKU in the initial PRE_REGISTRATION state.
func NewSKU(id string, in NewSKUInput) SKU {
	now := time.Now().UTC()
	return SKU{
		ID:                    id,
		Description:           in.Description,
		CommercialDescription: in.CommercialDescription,
		Code:                  in.Code,
		Status:                StatusPreRegistration,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}
