// Package forms validates dashboard forms before anything is sent to the API.
package forms

import (
	"net/url"
	"strings"

	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
)

// Errors maps a form field name to its translated message
type Errors map[string]string

// Any reports whether submission must be blocked
func (e Errors) Any() bool {
	return len(e) > 0
}

// Form is a validatable form
type Form interface {
	normalize()
	// messageKey maps a failed rule on field to a catalog key
	messageKey(field, tag string) string
}

// LoginForm is the sign-in form
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// LoginFromValues reads a LoginForm from posted form values
func LoginFromValues(v url.Values) LoginForm {
	return LoginForm{
		Email:    v.Get("email"),
		Password: v.Get("password"),
	}
}

func (f *LoginForm) normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

func (f *LoginForm) messageKey(field, tag string) string {
	if field == "password" {
		return "auth.errors.passwordRequired"
	}
	return "auth.errors.invalidEmail"
}

// RegisterForm is the sign-up form
type RegisterForm struct {
	BusinessName    string `form:"business_name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
}

// RegisterFromValues reads a RegisterForm from posted form values
func RegisterFromValues(v url.Values) RegisterForm {
	return RegisterForm{
		BusinessName:    v.Get("business_name"),
		Email:           v.Get("email"),
		Password:        v.Get("password"),
		ConfirmPassword: v.Get("confirm_password"),
	}
}

func (f *RegisterForm) normalize() {
	f.BusinessName = strings.TrimSpace(f.BusinessName)
	f.Email = strings.TrimSpace(f.Email)
}

func (f *RegisterForm) messageKey(field, tag string) string {
	switch field {
	case "business_name":
		return "auth.errors.businessNameRequired"
	case "password":
		return "auth.errors.passwordTooShort"
	case "confirm_password":
		return "auth.errors.passwordMismatch"
	default:
		return "auth.errors.invalidEmail"
	}
}

// Validator checks forms and translates their errors
type Validator struct {
	v       *validator.Validator
	catalog *i18n.Catalog
}

// New creates a form validator
func New(catalog *i18n.Catalog) *Validator {
	return &Validator{v: validator.New(), catalog: catalog}
}

// Validate normalizes f in place and returns its errors in lang, one per
// field. An empty result means the form may be submitted.
func (fv *Validator) Validate(f Form, lang string) Errors {
	f.normalize()

	errs := Errors{}
	for _, ve := range fv.v.Validate(f) {
		if _, seen := errs[ve.Field]; seen {
			continue
		}
		errs[ve.Field] = fv.catalog.T(lang, f.messageKey(ve.Field, ve.Tag))
	}
	return errs
}
