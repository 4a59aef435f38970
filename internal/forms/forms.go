// Package forms defines the HTML forms accepted by the site and their
// declarative validation rules.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Register is the account sign-up form.
type Register struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Name     string `form:"name" validate:"required"`
}

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Post is the authoring form used for both creating and editing posts.
type Post struct {
	Title    string `form:"title" validate:"required"`
	Subtitle string `form:"subtitle" validate:"required"`
	ImageURL string `form:"img_url" validate:"required,url"`
	Body     string `form:"body" validate:"required"`
}

// Comment is the single-field comment form under a post.
type Comment struct {
	Text string `form:"text" validate:"required"`
}

// Contact is the contact-the-owner form.
type Contact struct {
	Name    string `form:"name" validate:"required,alpha_space"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone" validate:"required,digits,min=9"`
	Message string `form:"message" validate:"required,min=10,max=200"`
}

// Errors maps field names (their form tag) to a user-facing message.
type Errors map[string]string

var (
	alphaSpaceRe = regexp.MustCompile(`^[a-zA-Z ]+$`)
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report errors under the form field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return strings.ToLower(fld.Name)
	})

	_ = v.RegisterValidation("alpha_space", func(fl validator.FieldLevel) bool {
		return alphaSpaceRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})

	return v
}

// Validate runs the declarative rules of a form and returns one message per
// failing field. A nil result means the form is valid. Validation is pure:
// nothing is persisted and the form value is not modified.
func Validate(form interface{}) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": "The submitted form could not be processed."}
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		// first failing rule per field wins
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "alpha_space":
		return "Only letters and spaces are allowed."
	case "digits":
		return "Only digits are allowed."
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", fe.Param())
	default:
		return "Invalid value."
	}
}
