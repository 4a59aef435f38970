// Package seed fills the database with demo accounts, posts and comments.
// It is meant for development and demos only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account gets.
const DemoPassword = "password123"

// Options controls how much demo data the seeder creates.
type Options struct {
	Users           int
	Posts           int
	CommentsPerPost int
	Clean           bool
}

// Seeder creates demo data through the same repositories the handlers use,
// so seeded data obeys the same rules (first account is the admin,
// duplicate titles are refused).
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	rnd      *rand.Rand
}

// NewSeeder creates a seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table, children first.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"comments", "blog_posts", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Run populates the database per opts and returns the admin account.
func (s *Seeder) Run(ctx context.Context, opts Options) (*models.User, error) {
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// created first, so it becomes the administrator
	admin := &models.User{
		Email:    "admin@example.com",
		Password: string(hash),
		Name:     gofakeit.Name(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("seeding admin: %w", err)
	}

	members := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		member := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hash),
			Name:     gofakeit.Name(),
		}
		if err := s.users.Create(ctx, member); err != nil {
			return nil, fmt.Errorf("seeding member %d: %w", i, err)
		}
		members = append(members, member)
	}

	for i := 0; i < opts.Posts; i++ {
		post, err := s.createPost(ctx, admin, i)
		if err != nil {
			return nil, err
		}
		if err := s.commentOn(ctx, post, members, opts.CommentsPerPost); err != nil {
			return nil, err
		}
	}

	return admin, nil
}

// createPost makes one post with a publication date spread over the last
// year. The index keeps generated titles unique.
func (s *Seeder) createPost(ctx context.Context, author *models.User, i int) (*models.Post, error) {
	title := strings.TrimSuffix(gofakeit.HipsterSentence(4), ".")
	title = fmt.Sprintf("%s %d", title, i+1)

	published := time.Now().AddDate(0, 0, -s.rnd.Intn(365))
	post := &models.Post{
		Title:    title,
		Subtitle: strings.TrimSuffix(gofakeit.Sentence(6), "."),
		Body:     "<p>" + gofakeit.Paragraph(3, 4, 12, "</p><p>") + "</p>",
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/900/400", gofakeit.UUID()),
		Date:     published.Format(models.PostDateLayout),
		AuthorID: author.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("seeding post %d: %w", i, err)
	}
	return post, nil
}

func (s *Seeder) commentOn(ctx context.Context, post *models.Post, members []*models.User, n int) error {
	if len(members) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		commenter := members[s.rnd.Intn(len(members))]
		comment := &models.Comment{
			Text:   gofakeit.Sentence(s.rnd.Intn(12) + 4),
			Date:   time.Now().AddDate(0, 0, -s.rnd.Intn(30)).Format(models.CommentDateLayout),
			PostID: post.ID,
			UserID: commenter.ID,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("seeding comment on post %d: %w", post.ID, err)
		}
	}
	return nil
}
