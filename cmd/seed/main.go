// Command seed fills the database with demo accounts, posts and comments.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of member accounts to create")
	posts := flag.Int("posts", 8, "number of posts to create")
	comments := flag.Int("comments", 4, "comments per post")
	clean := flag.Bool("clean", true, "wipe existing data before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	admin, err := seed.NewSeeder(db).Run(context.Background(), seed.Options{
		Users:           *users,
		Posts:           *posts,
		CommentsPerPost: *comments,
		Clean:           *clean,
	})
	if err != nil {
		middleware.Logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	middleware.Logger.Info("seeding complete",
		slog.String("admin_email", admin.Email),
		slog.String("password", seed.DemoPassword),
		slog.Int("members", *users),
		slog.Int("posts", *posts),
	)
}
