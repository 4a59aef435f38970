package server

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/mail"
	"inkwell/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:          "8080",
		Env:           "test",
		DBDriver:      "sqlite",
		SessionSecret: base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		TemplateDir:   "../../web/templates",
		StaticDir:     "../../web/static",
	}
}

// newTestServer builds a full server over a fresh in-memory database, with
// in-process sessions and the given mailer (nil disables mail).
func newTestServer(t *testing.T, mailer mail.Sender) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a second pooled connection would see its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })

	return New(testConfig(), db, nil, mailer)
}

// testClient drives the app through app.Test while carrying cookies between
// requests, the way a browser would.
type testClient struct {
	t       *testing.T
	srv     *Server
	cookies map[string]string
}

func newTestClient(t *testing.T, srv *Server) *testClient {
	return &testClient{t: t, srv: srv, cookies: make(map[string]string)}
}

func (tc *testClient) do(req *http.Request) *http.Response {
	tc.t.Helper()

	for name, value := range tc.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := tc.srv.App().Test(req, -1)
	require.NoError(tc.t, err)

	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(tc.cookies, c.Name)
			continue
		}
		tc.cookies[c.Name] = c.Value
	}
	return resp
}

func (tc *testClient) get(path string) *http.Response {
	tc.t.Helper()
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tc *testClient) postForm(path string, form url.Values) *http.Response {
	tc.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// register signs up an account through the real endpoint and leaves the
// client logged in.
func (tc *testClient) register(email, password, name string) {
	tc.t.Helper()
	resp := tc.postForm("/register", url.Values{
		"email":    {email},
		"password": {password},
		"name":     {name},
	})
	require.Equal(tc.t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()
}

func (tc *testClient) login(email, password string) {
	tc.t.Helper()
	resp := tc.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(tc.t, http.StatusSeeOther, resp.StatusCode)
	resp.Body.Close()
}

// seedUser writes an account straight to the database, bypassing the HTTP
// layer, for tests that need a known role.
func seedUser(t *testing.T, srv *Server, email, password, name, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     name,
		Role:     role,
	}
	require.NoError(t, srv.db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, srv *Server, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Subtitle: "a subtitle",
		Body:     "<p>some body text</p>",
		ImageURL: "https://example.com/cover.jpg",
		Date:     "August 31, 2026",
		AuthorID: author.ID,
	}
	require.NoError(t, srv.posts.Create(t.Context(), post))
	return post
}

// mockMailer is a testify mock for the outbound mail sender.
type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(msg mail.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

// mockPostRepository lets handler tests fail storage on demand.
type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if post, ok := args.Get(0).(*models.Post); ok {
		return post, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if posts, ok := args.Get(0).([]*models.Post); ok {
		return posts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
