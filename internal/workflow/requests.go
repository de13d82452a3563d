package workflow

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// RegisterClientRequest creates a new client account on the free tier.
type RegisterClientRequest struct {
	CompanyName string `json:"company_name" validate:"required,max=200"`
	ContactName string `json:"contact_name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=50"`
}

// Validate validates the RegisterClientRequest using the validator.
func (r *RegisterClientRequest) Validate() error {
	return firstValidationError(validator.New().Struct(r))
}

// SubmitJobRequest creates a new hiring request for a client.
type SubmitJobRequest struct {
	Title               string   `json:"title" validate:"required,max=200"`
	Description         string   `json:"description" validate:"required"`
	SeniorityLevel      string   `json:"seniority_level" validate:"required"`
	WorkArrangement     string   `json:"work_arrangement" validate:"required"`
	Location            string   `json:"location" validate:"required,max=200"`
	SalaryRangeMin      int      `json:"salary_range_min" validate:"required,gt=0"`
	SalaryRangeMax      int      `json:"salary_range_max" validate:"required,gt=0,gtefield=SalaryRangeMin"`
	KeySellingPoints    []string `json:"key_selling_points" validate:"required,min=1,max=10,dive,required"`
	CandidatesRequested int      `json:"candidates_requested" validate:"required,gt=0"`
}

// Validate validates the SubmitJobRequest using the validator.
func (r *SubmitJobRequest) Validate() error {
	return firstValidationError(validator.New().Struct(r))
}

// ClientUpdate is an admin edit of a client's contact fields. Nil fields are
// left unchanged; credit and quota changes go through the dedicated
// operations instead.
type ClientUpdate struct {
	CompanyName *string `json:"company_name,omitempty"`
	ContactName *string `json:"contact_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// firstValidationError converts a validator error into the workflow's typed
// validation error, keeping the first offending field.
func firstValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ErrValidation{
			Field:   verrs[0].Field(),
			Message: "failed on rule " + verrs[0].Tag(),
		}
	}
	return &ErrValidation{Field: "(request)", Message: err.Error()}
}
