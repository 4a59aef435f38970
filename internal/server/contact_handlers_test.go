package server

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/mail"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validContactForm() url.Values {
	return url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"phone":   {"123456789"},
		"message": {"I would like to talk about your latest post."},
	}
}

func TestContactPageRenders(t *testing.T) {
	srv := newTestServer(t, nil)
	tc := newTestClient(t, srv)

	resp := tc.get("/contact")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Contact Me")
}

func TestSubmitContactSendsMail(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("Send", mock.MatchedBy(func(msg mail.Message) bool {
		return msg.Name == "Ada Lovelace" &&
			msg.Email == "ada@example.com" &&
			msg.Phone == "123456789" &&
			strings.Contains(msg.Body, "latest post")
	})).Return(nil)

	srv := newTestServer(t, mailer)
	tc := newTestClient(t, srv)

	resp := tc.postForm("/contact", validContactForm())
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = tc.get("/contact")
	assert.Contains(t, readBody(t, resp), "Your message has been sent successfully!")
	mailer.AssertExpectations(t)
}

func TestSubmitContactMailFailureIsSoft(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything).Return(models.NewMailError(assert.AnError))

	srv := newTestServer(t, mailer)
	tc := newTestClient(t, srv)

	resp := tc.postForm("/contact", validContactForm())
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()

	resp = tc.get("/contact")
	assert.Contains(t, readBody(t, resp), "Your message could not be sent. Please try again later.")
}

func TestSubmitContactWithoutMailerIsSoft(t *testing.T) {
	srv := newTestServer(t, nil)
	tc := newTestClient(t, srv)

	resp := tc.postForm("/contact", validContactForm())
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()

	resp = tc.get("/contact")
	assert.Contains(t, readBody(t, resp), "Your message could not be sent. Please try again later.")
}

func TestSubmitContactValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		mutate func(url.Values)
		want   string
	}{
		{
			name:   "name with digits",
			mutate: func(f url.Values) { f.Set("name", "Ada 99") },
			want:   "Only letters and spaces are allowed.",
		},
		{
			name:   "phone with letters",
			mutate: func(f url.Values) { f.Set("phone", "12345678a") },
			want:   "Only digits are allowed.",
		},
		{
			name:   "phone too short",
			mutate: func(f url.Values) { f.Set("phone", "12345678") },
			want:   "Must be at least 9 characters long.",
		},
		{
			name:   "message of nine characters",
			mutate: func(f url.Values) { f.Set("message", strings.Repeat("a", 9)) },
			want:   "Must be at least 10 characters long.",
		},
		{
			name:   "message over two hundred characters",
			mutate: func(f url.Values) { f.Set("message", strings.Repeat("a", 201)) },
			want:   "Must be at most 200 characters long.",
		},
		{
			name:   "missing email",
			mutate: func(f url.Values) { f.Del("email") },
			want:   "This field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validContactForm()
			tt.mutate(form)

			tc := newTestClient(t, srv)
			resp := tc.postForm("/contact", form)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), tt.want)
		})
	}
}

func TestSubmitContactBoundaryLengthsAccepted(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything).Return(nil)
	srv := newTestServer(t, mailer)

	for _, n := range []int{10, 200} {
		form := validContactForm()
		form.Set("message", strings.Repeat("a", n))

		tc := newTestClient(t, srv)
		resp := tc.postForm("/contact", form)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "length %d", n)
		resp.Body.Close()
	}
	mailer.AssertNumberOfCalls(t, "Send", 2)
}

func TestAboutPage(t *testing.T) {
	srv := newTestServer(t, nil)
	tc := newTestClient(t, srv)

	resp := tc.get("/about")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "About Me")
}
