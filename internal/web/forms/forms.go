// Package forms validates submitted HTML forms.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/blogfront/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form name so errors line up with inputs
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// Errors maps form field names to messages
type Errors map[string]string

// Validate checks v against its validate tags. It returns nil when v is valid.
func Validate(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Errors{"": err.Error()}
	}
	out := make(Errors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "alphanum":
		return "Use letters and numbers only"
	case "url":
		return "Enter a valid URL"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "eqfield":
		return sentence(model.ErrPasswordMismatch)
	case "nefield":
		return sentence(model.ErrPasswordUnchanged)
	default:
		return fmt.Sprintf("Failed the %s check", fe.Tag())
	}
}

func sentence(err error) string {
	s := err.Error()
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Login is the sign-in form
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Register is the sign-up form
type Register struct {
	Email           string `form:"email" validate:"required,email"`
	Username        string `form:"username" validate:"required,min=3,max=30,alphanum"`
	Password        string `form:"password" validate:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

// ForgotPassword requests a reset link
type ForgotPassword struct {
	Email string `form:"email" validate:"required,email"`
}

// ResetPassword chooses a new password with a reset token
type ResetPassword struct {
	Token           string `form:"token" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// ChangePassword changes the signed-in user's password
type ChangePassword struct {
	CurrentPassword string `form:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Strength scores a password from 0 to 5: one point each for length 8+,
// length 12+, mixed case, a digit and a symbol.
func Strength(password string) int {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	n := len([]rune(password))
	score := 0
	for _, ok := range []bool{n >= 8, n >= 12, lower && upper, digit, symbol} {
		if ok {
			score++
		}
	}
	return score
}
