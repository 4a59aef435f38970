// Package server contains the HTTP handlers and routing for the blog.
package server

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/sessionstore"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides the route handlers.
type Server struct {
	cfg      *config.Config
	db       *gorm.DB
	app      *fiber.App
	sessions *session.Store
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	mailer   mail.Sender
}

// New creates a server instance with all dependencies wired. A nil storage
// keeps sessions in process memory; a nil mailer disables outbound mail and
// makes contact submissions fail soft.
func New(cfg *config.Config, db *gorm.DB, storage fiber.Storage, mailer mail.Sender) *Server {
	s := &Server{
		cfg:      cfg,
		db:       db,
		sessions: sessionstore.New(storage),
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		mailer:   mailer,
	}

	engine := html.New(cfg.TemplateDir, ".html")
	// post bodies and comments are stored as rich text
	engine.AddFunc("safeHTML", func(s string) template.HTML {
		return template.HTML(s)
	})
	engine.AddFunc("gravatar", gravatarURL)

	s.app = fiber.New(fiber.Config{
		AppName:      "inkwell",
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: s.handleError,
	})

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the given address and blocks.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(helmet.New())

	// cookies leaving the server are encrypted with SESSION_SECRET
	s.app.Use(encryptcookie.New(encryptcookie.Config{
		Key: s.cfg.SessionSecret,
	}))

	if s.cfg.TracingEnabled {
		s.app.Use(traceRequests())
	}

	// each server carries its own registry so repeated construction, as in
	// tests, never collides with the global prometheus state
	prom := fiberprometheus.NewWithRegistry(prometheus.NewRegistry(), "inkwell", "http", "", nil)
	prom.RegisterAt(s.app, "/metrics")
	s.app.Use(prom.Middleware)

	s.app.Use(s.loadCurrentUser)
	s.app.Use(middleware.Context())
	s.app.Use(middleware.RequestLogger())
}

func (s *Server) setupRoutes() {
	s.app.Static("/static", s.cfg.StaticDir)

	s.app.Get("/", s.ListPosts)
	s.app.Get("/about", s.About)

	s.app.Get("/contact", s.ContactPage)
	s.app.Post("/contact", s.SubmitContact)

	s.app.Get("/register", s.RegisterPage)
	s.app.Post("/register", s.Register)
	s.app.Get("/login", s.LoginPage)
	s.app.Post("/login", s.Login)
	s.app.Get("/logout", s.RequireAuth, s.Logout)

	s.app.Get("/post/:id", s.ShowPost)
	s.app.Post("/post/:id", s.AddComment)

	s.app.Get("/new-post", s.RequireAdmin, s.NewPostPage)
	s.app.Post("/new-post", s.RequireAdmin, s.CreatePost)
	s.app.Get("/edit-post/:id", s.RequireAdmin, s.EditPostPage)
	s.app.Post("/edit-post/:id", s.RequireAdmin, s.EditPost)
	s.app.Get("/delete/:id", s.RequireAdmin, s.DeletePost)
}

// handleError renders the dedicated error pages instead of Fiber's plain
// text default. Unexpected errors are logged with their request context.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status = appErr.Status()
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}

	switch status {
	case fiber.StatusForbidden:
		return c.Status(fiber.StatusForbidden).Render("403", fiber.Map{})
	case fiber.StatusNotFound:
		return c.Status(fiber.StatusNotFound).Render("404", fiber.Map{})
	default:
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.Status(status).Render("500", fiber.Map{})
	}
}

// gravatarURL builds the Gravatar avatar URL for an email address: md5 of
// the trimmed, lowercased address, 100px, "retro" fallback, rating g.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", sum)
}

// traceRequests opens one span per request.
func traceRequests() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, span := observability.Tracer.Start(c.UserContext(), c.Method()+" "+c.Path())
		defer span.End()
		c.SetUserContext(ctx)

		err := c.Next()

		span.SetAttributes(
			attribute.Int("http.status_code", c.Response().StatusCode()),
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", c.Path()),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
}
