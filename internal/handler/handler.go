package handler

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/user/moovie-watchlist/internal/config"
	"github.com/user/moovie-watchlist/internal/model"
	"github.com/user/moovie-watchlist/internal/repository"
)

// UserStore 用户存储
type UserStore interface {
	Create(name, email, password string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	CheckPassword(user *model.User, password string) bool
}

// MovieStore 电影存储
type MovieStore interface {
	List() ([]*model.Movie, error)
	FindByID(id uuid.UUID) (*model.Movie, error)
	FindByTitleAndYear(title string, year int) (*model.Movie, error)
	Create(movie *model.Movie) error
	Update(id uuid.UUID, fields map[string]interface{}) (*model.Movie, error)
	Delete(id uuid.UUID) error
}

// WatchlistStore 片单存储
type WatchlistStore interface {
	ListByUser(userID uuid.UUID) ([]*model.WatchlistItem, error)
	FindByID(id uuid.UUID) (*model.WatchlistItem, error)
	FindByUserAndMovie(userID, movieID uuid.UUID) (*model.WatchlistItem, error)
	Create(item *model.WatchlistItem) error
	Update(id uuid.UUID, fields map[string]interface{}) (*model.WatchlistItem, error)
	Delete(id uuid.UUID) error
}

// Pinger 数据库连通性检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler HTTP 处理器
type Handler struct {
	Users     UserStore
	Movies    MovieStore
	Watchlist WatchlistStore
	DB        Pinger
	Config    *config.Config
	Logger    *log.Logger
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, logger *log.Logger) *Handler {
	return &Handler{
		Users:     repos.User,
		Movies:    repos.Movie,
		Watchlist: repos.Watchlist,
		DB:        repos,
		Config:    cfg,
		Logger:    logger,
	}
}

// emptyToNil 空字符串视为 NULL
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// zeroToNil 0 视为 NULL
func zeroToNil(n *int) *int {
	if n == nil || *n == 0 {
		return nil
	}
	return n
}
