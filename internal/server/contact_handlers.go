package server

import (
	"log/slog"

	"inkwell/internal/forms"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ContactPage handles GET /contact.
func (s *Server) ContactPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "contact", fiber.Map{
		"Form":   forms.Contact{},
		"Errors": forms.Errors{},
	})
}

// SubmitContact handles POST /contact. A mail transport failure is not fatal
// to the request: the visitor sees a "not sent" notice and keeps their page.
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var form forms.Contact
	if err := c.BodyParser(&form); err != nil {
		return models.NewValidationError("malformed form submission")
	}

	if errs := forms.Validate(&form); errs != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, "contact", fiber.Map{
			"Form":   form,
			"Errors": errs,
		})
	}

	if s.mailer == nil {
		middleware.Logger.WarnContext(c.UserContext(), "contact message dropped: mail is not configured")
		s.addFlash(c, "error", "Your message could not be sent. Please try again later.")
		return c.Redirect("/contact", fiber.StatusSeeOther)
	}

	err := s.mailer.Send(mail.Message{
		Name:  form.Name,
		Email: form.Email,
		Phone: form.Phone,
		Body:  form.Message,
	})
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "contact mail delivery failed",
			slog.String("error", err.Error()))
		s.addFlash(c, "error", "Your message could not be sent. Please try again later.")
		return c.Redirect("/contact", fiber.StatusSeeOther)
	}

	s.addFlash(c, "info", "Your message has been sent successfully!")
	return c.Redirect("/contact", fiber.StatusSeeOther)
}

// About handles GET /about, a static page.
func (s *Server) About(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "about", nil)
}
