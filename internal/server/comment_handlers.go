package server

import (
	"time"

	"inkwell/internal/forms"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /post/:id. Anonymous visitors are sent to the
// login page instead of getting a bare error; nothing is written for them.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := s.posts.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	user := currentUser(c)
	if user == nil {
		s.addFlash(c, "error", "You cannot comment. You are not logged in.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	var form forms.Comment
	if err := c.BodyParser(&form); err != nil {
		return models.NewValidationError("malformed form submission")
	}

	if errs := forms.Validate(&form); errs != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, "post", fiber.Map{
			"Post":   post,
			"Form":   form,
			"Errors": errs,
		})
	}

	comment := &models.Comment{
		Text:   form.Text,
		Date:   time.Now().Format(models.CommentDateLayout),
		PostID: post.ID,
		UserID: user.ID,
	}
	if err := s.comments.Create(c.UserContext(), comment); err != nil {
		return err
	}

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}
