package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/user/moovie-watchlist/internal/middleware"
	"github.com/user/moovie-watchlist/internal/model"
	"github.com/user/moovie-watchlist/internal/repository"
	"github.com/user/moovie-watchlist/internal/utils"
)

const (
	msgItemNotFound    = "Watchlist item not found"
	msgAlreadyInWishes = "Movie already in watchlist"
)

// ListWatchlist 当前用户的片单
func (h *Handler) ListWatchlist(c *gin.Context) {
	items, err := h.Watchlist.ListByUser(middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to retrieve watchlist", err))
		return
	}
	if items == nil {
		items = []*model.WatchlistItem{}
	}

	utils.Success(c, items)
}

// AddToWatchlist 加入片单。先查重给出快速反馈，并发插入时以唯一索引为准。
func (h *Handler) AddToWatchlist(c *gin.Context) {
	req := middleware.Payload[AddWatchlistRequest](c)
	userID := middleware.GetUserID(c)

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		return
	}

	movie, err := h.Movies.FindByID(movieID)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to add movie to watchlist", err))
		return
	}
	if movie == nil {
		utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		return
	}

	existing, err := h.Watchlist.FindByUserAndMovie(userID, movieID)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to add movie to watchlist", err))
		return
	}
	if existing != nil {
		utils.Fail(c, utils.DuplicateError(msgAlreadyInWishes))
		return
	}

	status := req.Status
	if status == "" {
		status = model.StatusPlanned
	}

	item := &model.WatchlistItem{
		UserID:  userID,
		MovieID: movieID,
		Status:  status,
		Rating:  req.Rating,
		Notes:   emptyToNil(req.Notes),
	}

	if err := h.Watchlist.Create(item); err != nil {
		switch repository.KindOf(err) {
		case repository.KindDuplicate:
			utils.Fail(c, utils.DuplicateError(msgAlreadyInWishes))
		case repository.KindReferenced:
			// 电影在查询之后被删除
			utils.Fail(c, utils.NotFoundError(msgMovieNotFound))
		default:
			utils.Fail(c, utils.InternalError("Failed to add movie to watchlist", err))
		}
		return
	}

	utils.Created(c, item)
}

// UpdateWatchlistItem 部分更新，仅本人可操作
func (h *Handler) UpdateWatchlistItem(c *gin.Context) {
	req := middleware.Payload[UpdateWatchlistRequest](c)

	item, ok := h.ownedItem(c, "Not allowed to update this watchlist item")
	if !ok {
		return
	}

	fields := map[string]interface{}{}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Notes != nil {
		fields["notes"] = emptyToNil(req.Notes)
	}
	if len(fields) == 0 {
		utils.Success(c, item)
		return
	}

	updated, err := h.Watchlist.Update(item.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Fail(c, utils.NotFoundError(msgItemNotFound))
			return
		}
		utils.Fail(c, utils.InternalError("Failed to update watchlist item", err))
		return
	}

	utils.Success(c, updated)
}

// DeleteFromWatchlist 移出片单，仅本人可操作
func (h *Handler) DeleteFromWatchlist(c *gin.Context) {
	item, ok := h.ownedItem(c, "Not allowed to delete this watchlist item")
	if !ok {
		return
	}

	if err := h.Watchlist.Delete(item.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Fail(c, utils.NotFoundError(msgItemNotFound))
			return
		}
		utils.Fail(c, utils.InternalError("Failed to delete watchlist item", err))
		return
	}

	utils.SuccessWithMessage(c, "Movie removed from watchlist", nil)
}

func (h *Handler) ownedItem(c *gin.Context, forbidden string) (*model.WatchlistItem, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, utils.NotFoundError(msgItemNotFound))
		return nil, false
	}

	item, err := h.Watchlist.FindByID(id)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to retrieve watchlist item", err))
		return nil, false
	}
	if item == nil {
		utils.Fail(c, utils.NotFoundError(msgItemNotFound))
		return nil, false
	}

	if !item.IsOwnedBy(middleware.GetUserID(c)) {
		utils.Fail(c, utils.AuthorizationError(forbidden))
		return nil, false
	}
	return item, true
}
