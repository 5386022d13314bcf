package dto

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/brightcrm/customer-service/internal/domain/model"
)

var validate = validator.New()

// AddressRequest carries the nested address fields of a customer payload.
type AddressRequest struct {
	City    string `json:"city" form:"city" validate:"required"`
	State   string `json:"state" form:"state" validate:"required"`
	Country string `json:"country" form:"country" validate:"required"`
}

// CustomerRequest is the payload accepted by the create and update
// operations. TermsAndConditions is a pointer so that an absent value is
// distinguishable from an explicit false; both true and false validate.
type CustomerRequest struct {
	Name               string         `json:"name" form:"name" validate:"required"`
	Email              string         `json:"email" form:"email" validate:"required,email"`
	Phone              string         `json:"phone" form:"phone" validate:"required,len=10,numeric"`
	Address            AddressRequest `json:"address" validate:"required"`
	TermsAndConditions *bool          `json:"termsAndConditions" validate:"required"`
}

// ValidationError is a single human-readable schema failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the payload against the customer schema and reports the
// first failing field. Fields are checked in declaration order, so the
// message always names the earliest problem.
func (r *CustomerRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok || len(validationErrors) == 0 {
			return &ValidationError{Message: err.Error()}
		}
		first := validationErrors[0]
		return &ValidationError{Message: fieldMessage(first)}
	}
	return nil
}

// Model builds a customer entity from the validated payload. URL fields are
// filled in by the caller once uploads complete.
func (r *CustomerRequest) Model() *model.Customer {
	terms := false
	if r.TermsAndConditions != nil {
		terms = *r.TermsAndConditions
	}
	return &model.Customer{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Address: model.Address{
			City:    r.Address.City,
			State:   r.Address.State,
			Country: r.Address.Country,
		},
		TermsAndConditions: terms,
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldLabel(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "len", "numeric":
		return fmt.Sprintf("%q must be exactly 10 digits", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// fieldLabel turns a validator namespace like "CustomerRequest.Address.City"
// into the json-style path clients sent ("address.city").
func fieldLabel(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}
