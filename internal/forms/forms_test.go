package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validContact() Contact {
	return Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "123456789",
		Message: "Hello, I would like to get in touch.",
	}
}

func TestContactMessageLengthWindow(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{9, false},
		{10, true},
		{200, true},
		{201, false},
	}

	for _, tt := range tests {
		form := validContact()
		form.Message = strings.Repeat("a", tt.length)
		errs := Validate(&form)
		if tt.valid {
			assert.Nil(t, errs, "message of length %d should be accepted", tt.length)
		} else {
			assert.Contains(t, errs, "message", "message of length %d should be rejected", tt.length)
		}
	}
}

func TestContactNameLettersAndSpacesOnly(t *testing.T) {
	form := validContact()
	assert.Nil(t, Validate(&form))

	form.Name = "Jane42"
	errs := Validate(&form)
	assert.Equal(t, "Only letters and spaces are allowed.", errs["name"])

	form.Name = "J@ne"
	assert.Contains(t, Validate(&form), "name")
}

func TestContactPhoneDigitsWithMinimumLength(t *testing.T) {
	form := validContact()

	form.Phone = "12345678" // 8 digits, one short
	errs := Validate(&form)
	assert.Equal(t, "Must be at least 9 characters long.", errs["phone"])

	form.Phone = "12345678x"
	errs = Validate(&form)
	assert.Equal(t, "Only digits are allowed.", errs["phone"])

	form.Phone = "123456789"
	assert.Nil(t, Validate(&form))
}

func TestContactEmailWellFormedness(t *testing.T) {
	form := validContact()
	form.Email = "not-an-email"
	errs := Validate(&form)
	assert.Equal(t, "Enter a valid email address.", errs["email"])
}

func TestContactRequiredFields(t *testing.T) {
	errs := Validate(&Contact{})
	assert.Equal(t, "This field is required.", errs["name"])
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "message")
}

func TestPostFormImageURL(t *testing.T) {
	form := Post{
		Title:    "Hello",
		Subtitle: "world",
		ImageURL: "not a url",
		Body:     "<p>text</p>",
	}
	errs := Validate(&form)
	assert.Equal(t, "Enter a valid URL.", errs["img_url"])

	form.ImageURL = "https://example.com/cover.jpg"
	assert.Nil(t, Validate(&form))
}

func TestRegisterPasswordMinimumLength(t *testing.T) {
	form := Register{Email: "a@x.com", Password: "12345", Name: "A"}
	errs := Validate(&form)
	assert.Equal(t, "Must be at least 6 characters long.", errs["password"])

	form.Password = "123456"
	assert.Nil(t, Validate(&form))
}

func TestLoginRequiresBothFields(t *testing.T) {
	errs := Validate(&Login{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestCommentRequiresText(t *testing.T) {
	assert.Contains(t, Validate(&Comment{}), "text")
	assert.Nil(t, Validate(&Comment{Text: "nice post"}))
}
