package server

import (
	"fmt"

	"inkwell/internal/forms"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "register", fiber.Map{
		"Form":   forms.Register{},
		"Errors": forms.Errors{},
	})
}

// Register handles POST /register. A new account is logged in right away;
// the first account ever created becomes the administrator.
func (s *Server) Register(c *fiber.Ctx) error {
	var form forms.Register
	if err := c.BodyParser(&form); err != nil {
		return models.NewValidationError("malformed form submission")
	}

	if errs := forms.Validate(&form); errs != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, "register", fiber.Map{
			"Form":   form,
			"Errors": errs,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Email:    form.Email,
		Password: string(hash),
		Name:     form.Name,
	}
	if err := s.users.Create(c.UserContext(), user); err != nil {
		if models.HasCode(err, models.CodeDuplicateEmail) {
			return s.render(c, fiber.StatusUnprocessableEntity, "register", fiber.Map{
				"Form": form,
				"Errors": forms.Errors{
					"email": fmt.Sprintf("An account for %s already exists. Log in instead.", form.Email),
				},
			})
		}
		return err
	}

	if err := s.beginSession(c, user.ID); err != nil {
		return err
	}
	s.addFlash(c, "info", "Registration successful. You are now logged in.")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "login", fiber.Map{
		"Form":   forms.Login{},
		"Errors": forms.Errors{},
	})
}

// Login handles POST /login. Unknown email and wrong password re-render the
// form with a message; no lockout or backoff is applied.
func (s *Server) Login(c *fiber.Ctx) error {
	var form forms.Login
	if err := c.BodyParser(&form); err != nil {
		return models.NewValidationError("malformed form submission")
	}

	if errs := forms.Validate(&form); errs != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, "login", fiber.Map{
			"Form":   form,
			"Errors": errs,
		})
	}

	user, err := s.users.GetByEmail(c.UserContext(), form.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return s.render(c, fiber.StatusUnauthorized, "login", fiber.Map{
			"Form": form,
			"Errors": forms.Errors{
				"email": fmt.Sprintf("No account found for %s. Try again.", form.Email),
			},
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		return s.render(c, fiber.StatusUnauthorized, "login", fiber.Map{
			"Form": form,
			"Errors": forms.Errors{
				"password": "Incorrect password. Try again.",
			},
		})
	}

	if err := s.beginSession(c, user.ID); err != nil {
		return err
	}
	s.addFlash(c, "info", "Login successful.")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout handles GET /logout. The route requires an active session.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.endSession(c); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
