package handler

import "github.com/user/moovie-watchlist/internal/model"

// RegisterRequest 注册
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" conform:"trim"`
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required,strongpassword"`
}

// LoginRequest 登录。密码只校验非空，格式不符与密码错误一样返回 401。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
}

// CreateMovieRequest 创建电影
type CreateMovieRequest struct {
	Title       string   `json:"title" binding:"required" conform:"trim"`
	Overview    *string  `json:"overview"`
	ReleaseYear int      `json:"releaseYear" binding:"required,gte=1888,releaseyear"`
	Genres      []string `json:"genres"`
	Runtime     *int     `json:"runtime" binding:"omitempty,gte=0"`
	PosterURL   *string  `json:"posterUrl" binding:"omitempty,urlorempty"`
}

// UpdateMovieRequest 部分更新电影，nil 表示未提供
type UpdateMovieRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1"`
	Overview    *string  `json:"overview"`
	ReleaseYear *int     `json:"releaseYear" binding:"omitempty,gte=1888,releaseyear"`
	Genres      []string `json:"genres"`
	Runtime     *int     `json:"runtime" binding:"omitempty,gte=0"`
	PosterURL   *string  `json:"posterUrl" binding:"omitempty,urlorempty"`
}

// AddWatchlistRequest 加入片单
type AddWatchlistRequest struct {
	MovieID string                `json:"movieId" binding:"required,uuid" conform:"trim,lower"`
	Status  model.WatchlistStatus `json:"status" binding:"omitempty,oneof=PLANNED WATCHING COMPLETED DROPPED"`
	Rating  *int                  `json:"rating" binding:"required,gte=1,lte=10"`
	Notes   *string               `json:"notes" binding:"omitempty,max=500"`
}

// UpdateWatchlistRequest 部分更新片单条目
type UpdateWatchlistRequest struct {
	Status *model.WatchlistStatus `json:"status" binding:"omitempty,oneof=PLANNED WATCHING COMPLETED DROPPED"`
	Rating *int                   `json:"rating" binding:"omitempty,gte=1,lte=10"`
	Notes  *string                `json:"notes" binding:"omitempty,max=500"`
}
