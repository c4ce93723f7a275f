package http

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/neomorfeo/skucatalog/internal/app"
	"github.com/neomorfeo/skucatalog/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05.000Z"

// SKUResponse is the API representation of a SKU.
type SKUResponse struct {
	ID                    string `json:"id" doc:"Unique identifier"`
	Description           string `json:"description" doc:"Internal description"`
	CommercialDescription string `json:"commercialDescription" doc:"Description shown to customers"`
	Code                  string `json:"code" doc:"Unique SKU code"`
	Status                string `json:"status" doc:"Lifecycle state" enum:"PRE_REGISTRATION,REGISTRATION_COMPLETE,ACTIVE,DEACTIVATED,CANCELED"`
	CreatedAt             string `json:"createdAt" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt             string `json:"updatedAt" doc:"Last update timestamp (ISO 8601)"`
}

func toSKUResponse(s domain.SKU) SKUResponse {
	return SKUResponse{
		ID:                    s.ID,
		Description:           s.Description,
		CommercialDescription: s.CommercialDescription,
		Code:                  s.Code,
		Status:                string(s.Status),
		CreatedAt:             s.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:             s.UpdatedAt.UTC().Format(timeFormat),
	}
}

// --- Create SKU ---

type CreateSKUInput struct {
	Body struct {
		Description           string `json:"description" minLength:"1" maxLength:"500" doc:"Internal description"`
		CommercialDescription string `json:"commercialDescription" minLength:"1" maxLength:"500" doc:"Description shown to customers"`
		Code                  string `json:"code" minLength:"1" maxLength:"50" doc:"Unique SKU code"`
		Status                string `json:"status,omitempty" doc:"Ignored: new SKUs always start in PRE_REGISTRATION"`
	}
}

type CreateSKUOutput struct {
	Body SKUResponse
}

// --- Get SKU ---

type GetSKUInput struct {
	ID string `path:"id" doc:"SKU ID"`
}

type GetSKUOutput struct {
	Body SKUResponse
}

// --- List SKUs ---

type ListSKUsInput struct {
	Status string `query:"status" required:"false" enum:"PRE_REGISTRATION,REGISTRATION_COMPLETE,ACTIVE,DEACTIVATED,CANCELED" doc:"Filter by status"`
	Limit  int    `query:"limit" required:"false" default:"50" minimum:"1" maximum:"100" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" minimum:"0" doc:"Pagination offset"`
}

type ListSKUsOutput struct {
	Body []SKUResponse
}

// --- Update SKU ---

type UpdateSKUInput struct {
	ID   string `path:"id" doc:"SKU ID"`
	Body struct {
		Description           *string `json:"description,omitempty" minLength:"1" maxLength:"500" doc:"Internal description (editable in PRE_REGISTRATION)"`
		CommercialDescription *string `json:"commercialDescription,omitempty" minLength:"1" maxLength:"500" doc:"Description shown to customers (editable in PRE_REGISTRATION and REGISTRATION_COMPLETE)"`
		Code                  *string `json:"code,omitempty" minLength:"1" maxLength:"50" doc:"Unique SKU code (editable in PRE_REGISTRATION)"`
		Status                *string `json:"status,omitempty" enum:"PRE_REGISTRATION,REGISTRATION_COMPLETE,ACTIVE,DEACTIVATED,CANCELED" doc:"Requested lifecycle state"`
	}
}

type UpdateSKUOutput struct {
	Body SKUResponse
}

// --- Delete SKU ---

type DeleteSKUInput struct {
	ID string `path:"id" doc:"SKU ID"`
}

// --- Lifecycle ---

type LifecycleResponse struct {
	ID                 string   `json:"id" doc:"SKU ID"`
	Status             string   `json:"status" doc:"Current lifecycle state"`
	AllowedTransitions []string `json:"allowedTransitions" doc:"States reachable in one step"`
	EditableFields     []string `json:"editableFields" doc:"Fields that may change in the current state"`
}

type LifecycleOutput struct {
	Body LifecycleResponse
}

// --- Health ---

type HealthOutput struct {
	Body struct {
		Status    string `json:"status" example:"OK"`
		Timestamp string `json:"timestamp" doc:"Server time (ISO 8601)"`
	}
}

// Register adds all SKU API routes to the Huma API.
func Register(api huma.API, svc *app.SKUService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-sku",
		Method:        http.MethodPost,
		Path:          "/api/v1/skus",
		Summary:       "Create a new SKU",
		Description:   "New SKUs always start in PRE_REGISTRATION; any status in the payload is ignored.",
		Tags:          []string{"SKUs"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateSKUInput) (*CreateSKUOutput, error) {
		sku, err := svc.Create(ctx, domain.NewSKUInput{
			Description:           input.Body.Description,
			CommercialDescription: input.Body.CommercialDescription,
			Code:                  input.Body.Code,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateSKUOutput{Body: toSKUResponse(sku)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-sku",
		Method:      http.MethodGet,
		Path:        "/api/v1/skus/{id}",
		Summary:     "Get a SKU by ID",
		Tags:        []string{"SKUs"},
	}, func(ctx context.Context, input *GetSKUInput) (*GetSKUOutput, error) {
		sku, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetSKUOutput{Body: toSKUResponse(sku)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-skus",
		Method:      http.MethodGet,
		Path:        "/api/v1/skus",
		Summary:     "List SKUs, newest first",
		Tags:        []string{"SKUs"},
	}, func(ctx context.Context, input *ListSKUsInput) (*ListSKUsOutput, error) {
		filter := domain.ListFilter{
			Limit:  input.Limit,
			Offset: input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		skus, err := svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]SKUResponse, len(skus))
		for i, s := range skus {
			resp[i] = toSKUResponse(s)
		}
		return &ListSKUsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-sku",
		Method:      http.MethodPatch,
		Path:        "/api/v1/skus/{id}",
		Summary:     "Update a SKU",
		Description: "Applies a partial update under the lifecycle rules. Changing the commercial description " +
			"of a SKU in REGISTRATION_COMPLETE returns it to PRE_REGISTRATION.",
		Tags: []string{"SKUs"},
	}, func(ctx context.Context, input *UpdateSKUInput) (*UpdateSKUOutput, error) {
		u := domain.Update{
			Description:           input.Body.Description,
			CommercialDescription: input.Body.CommercialDescription,
			Code:                  input.Body.Code,
		}
		if input.Body.Status != nil {
			s := domain.Status(*input.Body.Status)
			u.Status = &s
		}

		sku, err := svc.Update(ctx, input.ID, u)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &UpdateSKUOutput{Body: toSKUResponse(sku)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-sku",
		Method:        http.MethodDelete,
		Path:          "/api/v1/skus/{id}",
		Summary:       "Delete a SKU permanently",
		Tags:          []string{"SKUs"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteSKUInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-sku-lifecycle",
		Method:      http.MethodGet,
		Path:        "/api/v1/skus/{id}/lifecycle",
		Summary:     "Show allowed transitions and editable fields for a SKU",
		Tags:        []string{"SKUs"},
	}, func(ctx context.Context, input *GetSKUInput) (*LifecycleOutput, error) {
		lc, err := svc.Lifecycle(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := LifecycleResponse{
			ID:                 lc.SKU.ID,
			Status:             string(lc.SKU.Status),
			AllowedTransitions: make([]string, len(lc.AllowedTransitions)),
			EditableFields:     make([]string, len(lc.EditableFields)),
		}
		for i, s := range lc.AllowedTransitions {
			resp.AllowedTransitions[i] = string(s)
		}
		for i, f := range lc.EditableFields {
			resp.EditableFields[i] = string(f)
		}
		return &LifecycleOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Liveness check",
		Tags:        []string{"System"},
	}, func(_ context.Context, _ *struct{}) (*HealthOutput, error) {
		out := &HealthOutput{}
		out.Body.Status = "OK"
		out.Body.Timestamp = time.Now().UTC().Format(timeFormat)
		return out, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrSKUNotFound) {
		return huma.Error404NotFound("sku not found")
	}

	var conflict *domain.CodeConflictError
	if errors.As(err, &conflict) {
		return huma.Error409Conflict(conflict.Error(), &huma.ErrorDetail{
			Location: "body.code",
			Message:  "already in use",
			Value:    conflict.Code,
		})
	}

	var fieldErr *domain.FieldNotEditableError
	if errors.As(err, &fieldErr) {
		details := make([]error, len(fieldErr.Fields))
		for i, f := range fieldErr.Fields {
			details[i] = &huma.ErrorDetail{
				Location: "body." + string(f),
				Message:  "not editable in status " + string(fieldErr.Status),
			}
		}
		return huma.Error422UnprocessableEntity(fieldErr.Error(), details...)
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error(), &huma.ErrorDetail{
			Location: "body.status",
			Message:  "not reachable from " + string(trErr.Current),
			Value:    string(trErr.Requested),
		})
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return huma.Error422UnprocessableEntity("validation failed", validationDetails(vErr)...)
	}

	return huma.Error500InternalServerError("internal server error")
}

// validationDetails flattens ozzo field errors into huma details, sorted by
// field for stable output.
func validationDetails(vErr *domain.ValidationError) []error {
	var fieldErrs validation.Errors
	if !errors.As(vErr.Err, &fieldErrs) {
		return []error{&huma.ErrorDetail{Message: vErr.Err.Error()}}
	}

	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	details := make([]error, 0, len(fields))
	for _, f := range fields {
		details = append(details, &huma.ErrorDetail{
			Location: "body." + f,
			Message:  fieldErrs[f].Error(),
		})
	}
	return details
}
