package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/moovie-watchlist/internal/model"
	"github.com/user/moovie-watchlist/internal/repository"
)

// memStore 内存存储，按数据库的唯一约束与外键规则返回仓库错误
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]model.User
	movies    map[uuid.UUID]model.Movie
	watchlist map[uuid.UUID]model.WatchlistItem
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]model.User{},
		movies:    map[uuid.UUID]model.Movie{},
		watchlist: map[uuid.UUID]model.WatchlistItem{},
	}
}

func (s *memStore) Ping(ctx context.Context) error { return nil }

type memUsers struct{ s *memStore }

func (r memUsers) Create(name, email, password string) (*model.User, error) {
	hash, err := repository.HashPassword(password)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}

	now := time.Now()
	u := model.User{ID: uuid.New(), Name: name, Email: email, Password: hash, CreatedAt: now, UpdatedAt: now}
	r.s.users[u.ID] = u
	return &u, nil
}

func (r memUsers) FindByEmail(email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) FindByID(id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r memUsers) CheckPassword(user *model.User, password string) bool {
	return repository.CheckPassword(user.Password, password)
}

type memMovies struct{ s *memStore }

func (r memMovies) withCreator(m model.Movie) *model.Movie {
	if u, ok := r.s.users[m.CreatedBy]; ok {
		m.Creator = &model.Creator{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &m
}

func (r memMovies) List() ([]*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Movie, 0, len(r.s.movies))
	for _, m := range r.s.movies {
		out = append(out, r.withCreator(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memMovies) FindByID(id uuid.UUID) (*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.movies[id]; ok {
		return r.withCreator(m), nil
	}
	return nil, nil
}

func (r memMovies) FindByTitleAndYear(title string, year int) (*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movies {
		if m.Title == title && m.ReleaseYear == year {
			return r.withCreator(m), nil
		}
	}
	return nil, nil
}

func (r memMovies) Create(movie *model.Movie) error {
	if err := movie.BeforeCreate(nil); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[movie.CreatedBy]; !ok {
		return repository.ErrReferenced
	}
	movie.CreatedAt, movie.UpdatedAt = time.Now(), time.Now()
	stored := *movie
	stored.Creator = nil
	r.s.movies[movie.ID] = stored
	*movie = *r.withCreator(stored)
	return nil
}

func (r memMovies) Update(id uuid.UUID, fields map[string]interface{}) (*model.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			m.Title = v.(string)
		case "overview":
			m.Overview = v.(*string)
		case "release_year":
			m.ReleaseYear = v.(int)
		case "genres":
			m.Genres = v.(pq.StringArray)
		case "runtime":
			m.Runtime = v.(*int)
		case "poster_url":
			m.PosterURL = v.(*string)
		}
	}
	m.UpdatedAt = time.Now()
	r.s.movies[id] = m
	return r.withCreator(m), nil
}

func (r memMovies) Delete(id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[id]; !ok {
		return repository.ErrNotFound
	}
	for _, item := range r.s.watchlist {
		if item.MovieID == id {
			return repository.ErrReferenced
		}
	}
	delete(r.s.movies, id)
	return nil
}

type memWatchlist struct{ s *memStore }

func (r memWatchlist) ListByUser(userID uuid.UUID) ([]*model.WatchlistItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.WatchlistItem
	for _, item := range r.s.watchlist {
		if item.UserID == userID {
			if m, ok := r.s.movies[item.MovieID]; ok {
				item.Movie = &m
			}
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r memWatchlist) FindByID(id uuid.UUID) (*model.WatchlistItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item, ok := r.s.watchlist[id]; ok {
		return &item, nil
	}
	return nil, nil
}

func (r memWatchlist) FindByUserAndMovie(userID, movieID uuid.UUID) (*model.WatchlistItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.watchlist {
		if item.UserID == userID && item.MovieID == movieID {
			return &item, nil
		}
	}
	return nil, nil
}

func (r memWatchlist) Create(item *model.WatchlistItem) error {
	if err := item.BeforeCreate(nil); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[item.MovieID]; !ok {
		return repository.ErrReferenced
	}
	for _, existing := range r.s.watchlist {
		if existing.UserID == item.UserID && existing.MovieID == item.MovieID {
			return repository.ErrDuplicate
		}
	}
	item.CreatedAt, item.UpdatedAt = time.Now(), time.Now()
	r.s.watchlist[item.ID] = *item
	return nil
}

func (r memWatchlist) Update(id uuid.UUID, fields map[string]interface{}) (*model.WatchlistItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.watchlist[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			item.Status = v.(model.WatchlistStatus)
		case "rating":
			n := v.(int)
			item.Rating = &n
		case "notes":
			item.Notes = v.(*string)
		}
	}
	item.UpdatedAt = time.Now()
	r.s.watchlist[id] = item
	return &item, nil
}

func (r memWatchlist) Delete(id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.watchlist[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.watchlist, id)
	return nil
}
