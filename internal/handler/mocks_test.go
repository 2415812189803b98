package handler_test

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/user/moovie-watchlist/internal/model"
)

// MockUserStore 用户存储 mock
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(name, email, password string) (*model.User, error) {
	args := m.Called(name, email, password)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserStore) CheckPassword(user *model.User, password string) bool {
	args := m.Called(user, password)
	return args.Bool(0)
}

// MockMovieStore 电影存储 mock
type MockMovieStore struct {
	mock.Mock
}

func (m *MockMovieStore) List() ([]*model.Movie, error) {
	args := m.Called()
	movies, _ := args.Get(0).([]*model.Movie)
	return movies, args.Error(1)
}

func (m *MockMovieStore) FindByID(id uuid.UUID) (*model.Movie, error) {
	args := m.Called(id)
	movie, _ := args.Get(0).(*model.Movie)
	return movie, args.Error(1)
}

func (m *MockMovieStore) FindByTitleAndYear(title string, year int) (*model.Movie, error) {
	args := m.Called(title, year)
	movie, _ := args.Get(0).(*model.Movie)
	return movie, args.Error(1)
}

func (m *MockMovieStore) Create(movie *model.Movie) error {
	args := m.Called(movie)
	return args.Error(0)
}

func (m *MockMovieStore) Update(id uuid.UUID, fields map[string]interface{}) (*model.Movie, error) {
	args := m.Called(id, fields)
	movie, _ := args.Get(0).(*model.Movie)
	return movie, args.Error(1)
}

func (m *MockMovieStore) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockWatchlistStore 片单存储 mock
type MockWatchlistStore struct {
	mock.Mock
}

func (m *MockWatchlistStore) ListByUser(userID uuid.UUID) ([]*model.WatchlistItem, error) {
	args := m.Called(userID)
	items, _ := args.Get(0).([]*model.WatchlistItem)
	return items, args.Error(1)
}

func (m *MockWatchlistStore) FindByID(id uuid.UUID) (*model.WatchlistItem, error) {
	args := m.Called(id)
	item, _ := args.Get(0).(*model.WatchlistItem)
	return item, args.Error(1)
}

func (m *MockWatchlistStore) FindByUserAndMovie(userID, movieID uuid.UUID) (*model.WatchlistItem, error) {
	args := m.Called(userID, movieID)
	item, _ := args.Get(0).(*model.WatchlistItem)
	return item, args.Error(1)
}

func (m *MockWatchlistStore) Create(item *model.WatchlistItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockWatchlistStore) Update(id uuid.UUID, fields map[string]interface{}) (*model.WatchlistItem, error) {
	args := m.Called(id, fields)
	item, _ := args.Get(0).(*model.WatchlistItem)
	return item, args.Error(1)
}

func (m *MockWatchlistStore) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}
