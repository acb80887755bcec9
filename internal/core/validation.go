package core

// validation.go validates create and update forms before they reach the backend.
//
// Forms carry go-playground/validator struct tags. Two custom tags are registered:
//
//   - phone: the value parses as a valid number for the configured default region
//   - isodate: the value is a YYYY-MM-DD calendar date
//
// Failures are reported per field, keyed by the field's JSON name, and wrap
// ErrValidation so transport layers can recognize them with errors.Is.

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// LoginForm is the sign-in request.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember,omitempty"`
}

// CustomerForm creates a customer.
type CustomerForm struct {
	Name                  string   `json:"name" validate:"required,max=200"`
	Phone                 string   `json:"phone" validate:"required,phone"`
	Email                 string   `json:"email,omitempty" validate:"omitempty,email"`
	MembershipCardID      string   `json:"membershipCardId,omitempty" validate:"max=64"`
	PrimaryBranchID       string   `json:"primaryBranchId,omitempty"`
	CustomerPackage       string   `json:"customerPackage,omitempty"`
	CustomerPackagePrice  *float64 `json:"customerPackagePrice,omitempty" validate:"omitempty,gte=0"`
	CustomerPackageExpiry string   `json:"customerPackageExpiry,omitempty" validate:"omitempty,isodate"`
	Notes                 string   `json:"notes,omitempty"`
}

// LeadForm creates a lead.
type LeadForm struct {
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Source   string `json:"source,omitempty"`
	BranchID string `json:"branchId,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// MembershipForm sells a membership to an existing customer.
type MembershipForm struct {
	CustomerID            string   `json:"customerId" validate:"required"`
	MembershipTypeID      string   `json:"membershipTypeId,omitempty"`
	TotalCredits          int      `json:"totalCredits" validate:"gte=1"`
	SoldAtBranchID        string   `json:"soldAtBranchId,omitempty"`
	ExpiryDate            string   `json:"expiryDate,omitempty" validate:"omitempty,isodate"`
	CustomerPackage       string   `json:"customerPackage,omitempty"`
	CustomerPackagePrice  *float64 `json:"customerPackagePrice,omitempty" validate:"omitempty,gte=0"`
	CustomerPackageExpiry string   `json:"customerPackageExpiry,omitempty" validate:"omitempty,isodate"`
	DiscountAmount        *float64 `json:"discountAmount,omitempty" validate:"omitempty,gte=0"`
}

// BranchForm creates or renames a branch.
type BranchForm struct {
	Name    string `json:"name" validate:"required,max=120"`
	Code    string `json:"code,omitempty" validate:"max=16"`
	Address string `json:"address,omitempty"`
	ZipCode string `json:"zipCode,omitempty" validate:"max=12"`
}

// PasswordChangeForm changes the operator's password.
type PasswordChangeForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors lists every failing field of a form.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Fields returns the errors keyed by field name.
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// FormValidator validates forms without any network round trip.
type FormValidator struct {
	validate *validator.Validate
	region   string
}

// NewFormValidator creates a validator. region is the default phone region
// (ISO 3166 alpha-2) for numbers written without a country code.
func NewFormValidator(region string) *FormValidator {
	if region == "" {
		region = "US"
	}
	fv := &FormValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		region:   strings.ToUpper(region),
	}

	fv.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = fv.validate.RegisterValidation("phone", fv.validPhone)
	_ = fv.validate.RegisterValidation("isodate", validISODate)

	return fv
}

// ValidPhone reports whether s is a valid phone number in the default region.
func (fv *FormValidator) ValidPhone(s string) bool {
	num, err := libphonenumber.Parse(strings.TrimSpace(s), fv.region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(num)
}

func (fv *FormValidator) validPhone(fl validator.FieldLevel) bool {
	return fv.ValidPhone(fl.Field().String())
}

func validISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// Validate checks form and returns ValidationErrors, or nil when it is valid.
func (fv *FormValidator) Validate(form any) error {
	err := fv.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Value:   fieldValue(fe),
			Message: fieldMessage(fe),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// fieldValue echoes the rejected value, except for secrets.
func fieldValue(fe validator.FieldError) string {
	if strings.Contains(strings.ToLower(fe.StructField()), "password") {
		return ""
	}
	v := fe.Value()
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ""
		}
		v = rv.Elem().Interface()
	}
	return fmt.Sprint(v)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "gte":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return "must be at least " + fe.Param()
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		if fe.Param() == "Password" {
			return "passwords do not match"
		}
		return "must match " + fe.Param()
	default:
		return "is invalid"
	}
}
