package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/moovie-watchlist/internal/middleware"
	"github.com/user/moovie-watchlist/internal/model"
	"github.com/user/moovie-watchlist/internal/repository"
	"github.com/user/moovie-watchlist/internal/utils"
)

const msgMovieNotFound = "Movie not found"

// ListMovies 电影列表（公开）
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.Movies.List()
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to retrieve movies", err))
		return
	}
	if movies == nil {
		movies = []*model.Movie{}
	}

	utils.Success(c, movies)
}

// GetMovie 电影详情（公开）
func (h *Handler) GetMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		return
	}

	movie, err := h.Movies.FindByID(id)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to retrieve movie", err))
		return
	}
	if movie == nil {
		utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		return
	}

	utils.Success(c, movie)
}

// CreateMovie 创建电影，创建者为当前用户
func (h *Handler) CreateMovie(c *gin.Context) {
	req := middleware.Payload[CreateMovieRequest](c)
	user := middleware.CurrentUser(c)

	existing, err := h.Movies.FindByTitleAndYear(req.Title, req.ReleaseYear)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to create movie", err))
		return
	}
	if existing != nil {
		utils.Fail(c, utils.DuplicateError("Movie already exists in database"))
		return
	}

	movie := &model.Movie{
		Title:       req.Title,
		Overview:    emptyToNil(req.Overview),
		ReleaseYear: req.ReleaseYear,
		Genres:      pq.StringArray(req.Genres),
		Runtime:     zeroToNil(req.Runtime),
		PosterURL:   emptyToNil(req.PosterURL),
		CreatedBy:   user.ID,
	}

	if err := h.Movies.Create(movie); err != nil {
		utils.Fail(c, utils.InternalError("Failed to create movie", err))
		return
	}

	utils.Created(c, movie)
}

// UpdateMovie 部分更新，仅创建者可操作
func (h *Handler) UpdateMovie(c *gin.Context) {
	req := middleware.Payload[UpdateMovieRequest](c)

	movie, ok := h.ownedMovie(c, "Not allowed to update this movie")
	if !ok {
		return
	}

	fields := movieUpdates(req)
	if len(fields) == 0 {
		utils.Success(c, movie)
		return
	}

	updated, err := h.Movies.Update(movie.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
			return
		}
		utils.Fail(c, utils.InternalError("Failed to update movie", err))
		return
	}

	utils.Success(c, updated)
}

// DeleteMovie 删除电影，仅创建者可操作；仍在片单中时返回 409
func (h *Handler) DeleteMovie(c *gin.Context) {
	movie, ok := h.ownedMovie(c, "Not allowed to delete this movie - you are not the creator")
	if !ok {
		return
	}

	if err := h.Movies.Delete(movie.ID); err != nil {
		switch repository.KindOf(err) {
		case repository.KindNotFound:
			utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		case repository.KindReferenced:
			utils.Fail(c, utils.ConflictError("Cannot delete movie: it is referenced by other records"))
		default:
			utils.Fail(c, utils.InternalError("Failed to delete movie", err))
		}
		return
	}

	utils.SuccessWithMessage(c, "Movie deleted successfully", nil)
}

// ownedMovie 加载路径中的电影并校验归属。存在但不属于当前用户时返回 403，不存在时返回 404。
func (h *Handler) ownedMovie(c *gin.Context, forbidden string) (*model.Movie, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		return nil, false
	}

	movie, err := h.Movies.FindByID(id)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to retrieve movie", err))
		return nil, false
	}
	if movie == nil {
		utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		return nil, false
	}

	if !movie.IsOwnedBy(middleware.GetUserID(c)) {
		utils.Fail(c, utils.AuthorizationError(forbidden))
		return nil, false
	}
	return movie, true
}

// movieUpdates 只包含请求中出现的字段
func movieUpdates(req *UpdateMovieRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Overview != nil {
		fields["overview"] = emptyToNil(req.Overview)
	}
	if req.ReleaseYear != nil {
		fields["release_year"] = *req.ReleaseYear
	}
	if req.Genres != nil {
		fields["genres"] = pq.StringArray(req.Genres)
	}
	if req.Runtime != nil {
		fields["runtime"] = zeroToNil(req.Runtime)
	}
	if req.PosterURL != nil {
		fields["poster_url"] = emptyToNil(req.PosterURL)
	}
	return fields
}
