package server

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionUserKey  = "user_id"
	sessionFlashKey = "flashes"
	localsUserKey   = "currentUser"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string // "info" or "error"
	Message  string
}

// loadCurrentUser resolves the session into the authenticated user, if any,
// and stores it in the request locals. Stale sessions pointing at a missing
// user are cleared.
func (s *Server) loadCurrentUser(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return c.Next()
	}

	uid, ok := sess.Get(sessionUserKey).(uint)
	if !ok {
		return c.Next()
	}

	user, err := s.users.GetByID(c.UserContext(), uid)
	if err != nil {
		sess.Delete(sessionUserKey)
		_ = sess.Save()
		return c.Next()
	}

	c.Locals(localsUserKey, user)
	c.Locals("userID", user.ID)
	return c.Next()
}

// currentUser returns the authenticated user for this request, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

// RequireAuth redirects anonymous visitors to the login page.
func (s *Server) RequireAuth(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		s.addFlash(c, "error", "Please log in to access this page.")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAdmin answers 403 for everyone but the administrator. This is a
// policy distinction from RequireAuth: a logged-in non-admin is not asked to
// log in again, they are refused.
func (s *Server) RequireAdmin(c *fiber.Ctx) error {
	if user := currentUser(c); !user.IsAdmin() {
		return models.NewForbiddenError("administrator access required")
	}
	return c.Next()
}

// render draws a template inside the site layout, with the current user and
// any pending flash messages bound in.
func (s *Server) render(c *fiber.Ctx, status int, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	bind["CurrentUser"] = currentUser(c)
	bind["Flashes"] = s.popFlashes(c)
	return c.Status(status).Render(name, bind)
}

// beginSession binds the session to the given user id.
func (s *Server) beginSession(c *fiber.Ctx, userID uint) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return models.NewInternalError(err)
	}
	sess.Set(sessionUserKey, userID)
	if err := sess.Save(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// endSession destroys the session unconditionally.
func (s *Server) endSession(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := sess.Destroy(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// addFlash queues a message for the next rendered page. Flash failures are
// logged and swallowed: losing a notice must not fail the request.
func (s *Server) addFlash(c *fiber.Ctx, category, message string) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "flash dropped",
			slog.String("error", err.Error()))
		return
	}

	var flashes []Flash
	if raw, ok := sess.Get(sessionFlashKey).(string); ok && raw != "" {
		_ = json.Unmarshal([]byte(raw), &flashes)
	}
	flashes = append(flashes, Flash{Category: category, Message: message})

	buf, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	sess.Set(sessionFlashKey, string(buf))
	if err := sess.Save(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "flash dropped",
			slog.String("error", err.Error()))
	}
}

// popFlashes returns pending flash messages and clears them.
func (s *Server) popFlashes(c *fiber.Ctx) []Flash {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil
	}

	raw, ok := sess.Get(sessionFlashKey).(string)
	if !ok || raw == "" {
		return nil
	}

	var flashes []Flash
	_ = json.Unmarshal([]byte(raw), &flashes)

	sess.Delete(sessionFlashKey)
	_ = sess.Save()
	return flashes
}

// parseID extracts the :id route parameter as a positive uint. A malformed
// id is treated the same as a missing record.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewNotFoundError("Post", c.Params("id"))
	}
	return uint(id), nil
}
