package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-watchlist/internal/config"
	"github.com/user/moovie-watchlist/internal/handler"
	"github.com/user/moovie-watchlist/internal/middleware"
	"github.com/user/moovie-watchlist/internal/model"
	"github.com/user/moovie-watchlist/internal/router"
	"github.com/user/moovie-watchlist/internal/utils"
)

const testSecret = "test-secret"

type stubPinger struct{ err error }

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

type testEnv struct {
	db        *stubPinger
	users     *MockUserStore
	movies    *MockMovieStore
	watchlist *MockWatchlistStore
	engine    *gin.Engine
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		db:        &stubPinger{},
		users:     new(MockUserStore),
		movies:    new(MockMovieStore),
		watchlist: new(MockWatchlistStore),
	}

	cfg := &config.Config{
		Env:            "development",
		AppSecret:      testSecret,
		JWTExpiry:      time.Hour,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	logger := log.New(io.Discard)

	h := &handler.Handler{
		Users:     env.users,
		Movies:    env.movies,
		Watchlist: env.watchlist,
		DB:        env.db,
		Config:    cfg,
		Logger:    logger,
	}
	env.engine = router.New(h, logger)
	return env
}

// login 生成 token 并让 RequireAuth 能找到该用户
func (e *testEnv) login(t *testing.T, user *model.User) string {
	t.Helper()
	e.users.On("FindByID", user.ID).Return(user, nil)
	token, err := middleware.GenerateToken(user.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Success bool               `json:"success"`
	Errors  []utils.FieldError `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func newUser(name string) *model.User {
	return &model.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     strings.ToLower(name) + "@example.com",
		Password:  "$2a$10$hash",
		CreatedAt: time.Now(),
	}
}

func newMovie(owner *model.User) *model.Movie {
	return &model.Movie{
		ID:          uuid.New(),
		Title:       "Dune",
		ReleaseYear: 2021,
		Genres:      []string{"Sci-Fi"},
		CreatedBy:   owner.ID,
		Creator:     &model.Creator{ID: owner.ID, Name: owner.Name, Email: owner.Email},
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
