package server

import (
	"time"

	"inkwell/internal/forms"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /, the front page with every post.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.posts.List(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "index", fiber.Map{
		"Posts": posts,
	})
}

// ShowPost handles GET /post/:id, the post page with its comments and the
// comment form. A missing post is a plain 404, never a crash.
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := s.posts.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "post", fiber.Map{
		"Post":   post,
		"Form":   forms.Comment{},
		"Errors": forms.Errors{},
	})
}

// NewPostPage handles GET /new-post (admin only).
func (s *Server) NewPostPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "make-post", fiber.Map{
		"IsEdit": false,
		"Form":   forms.Post{},
		"Errors": forms.Errors{},
	})
}

// CreatePost handles POST /new-post (admin only). The publication date is
// stamped at creation and never changes afterwards.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var form forms.Post
	if err := c.BodyParser(&form); err != nil {
		return models.NewValidationError("malformed form submission")
	}

	if errs := forms.Validate(&form); errs != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, "make-post", fiber.Map{
			"IsEdit": false,
			"Form":   form,
			"Errors": errs,
		})
	}

	post := &models.Post{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImageURL: form.ImageURL,
		Date:     time.Now().Format(models.PostDateLayout),
		AuthorID: currentUser(c).ID,
	}
	if err := s.posts.Create(c.UserContext(), post); err != nil {
		if models.HasCode(err, models.CodeDuplicateTitle) {
			return s.render(c, fiber.StatusUnprocessableEntity, "make-post", fiber.Map{
				"IsEdit": false,
				"Form":   form,
				"Errors": forms.Errors{"title": "A post with this title already exists."},
			})
		}
		return err
	}

	s.addFlash(c, "info", "Your post has been published.")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// EditPostPage handles GET /edit-post/:id (admin only), pre-filling the
// authoring form from the stored post.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := s.posts.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "make-post", fiber.Map{
		"IsEdit": true,
		"PostID": post.ID,
		"Form": forms.Post{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			ImageURL: post.ImageURL,
			Body:     post.Body,
		},
		"Errors": forms.Errors{},
	})
}

// EditPost handles POST /edit-post/:id (admin only). Only title, subtitle,
// image and body change; author and original date stay as they were.
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if _, err := s.posts.GetByID(c.UserContext(), id); err != nil {
		return err
	}

	var form forms.Post
	if err := c.BodyParser(&form); err != nil {
		return models.NewValidationError("malformed form submission")
	}

	if errs := forms.Validate(&form); errs != nil {
		return s.render(c, fiber.StatusUnprocessableEntity, "make-post", fiber.Map{
			"IsEdit": true,
			"PostID": id,
			"Form":   form,
			"Errors": errs,
		})
	}

	err = s.posts.Update(c.UserContext(), &models.Post{
		ID:       id,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		ImageURL: form.ImageURL,
		Body:     form.Body,
	})
	if err != nil {
		if models.HasCode(err, models.CodeDuplicateTitle) {
			return s.render(c, fiber.StatusUnprocessableEntity, "make-post", fiber.Map{
				"IsEdit": true,
				"PostID": id,
				"Form":   form,
				"Errors": forms.Errors{"title": "A post with this title already exists."},
			})
		}
		return err
	}

	return c.Redirect("/post/"+c.Params("id"), fiber.StatusSeeOther)
}

// DeletePost handles GET /delete/:id (admin only). Deleting a post takes its
// comments with it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(c.UserContext(), id); err != nil {
		return err
	}

	s.addFlash(c, "info", "The post has been deleted.")
	return c.Redirect("/", fiber.StatusSeeOther)
}
