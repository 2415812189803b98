package router

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/user/moovie-watchlist/internal/handler"
	"github.com/user/moovie-watchlist/internal/middleware"
	"github.com/user/moovie-watchlist/internal/utils"
)

// New 创建 gin 引擎并挂载全局中间件与路由
func New(h *handler.Handler, logger *log.Logger) *gin.Engine {
	r := gin.New()

	// 全局中间件
	r.Use(middleware.Logger(logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.Fail(c, utils.InternalError("Internal server error", fmt.Errorf("panic: %v", recovered)))
	}))
	r.Use(middleware.Security())
	r.Use(middleware.CORS(h.Config.AllowedOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)
	r.GET("/health/ready", h.Ready)

	requireAuth := middleware.RequireAuth(h.Config.AppSecret, h.Users)
	limiter := middleware.NewLimiter(h.Config.RateLimit.PerSecond, h.Config.RateLimit.Burst)

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	auth.Use(middleware.RateLimit(limiter))
	{
		auth.POST("/register", middleware.Validate[handler.RegisterRequest](), h.Register)
		auth.POST("/login", middleware.Validate[handler.LoginRequest](), h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", requireAuth, h.Me)
	}

	// ==================== 电影 ====================
	movies := r.Group("/movies")
	{
		movies.GET("", h.ListMovies)
		movies.GET("/:id", h.GetMovie)
		movies.POST("", requireAuth, middleware.Validate[handler.CreateMovieRequest](), h.CreateMovie)
		movies.PUT("/:id", requireAuth, middleware.Validate[handler.UpdateMovieRequest](), h.UpdateMovie)
		movies.DELETE("/:id", requireAuth, h.DeleteMovie)
	}

	// ==================== 片单（需要登录）====================
	watchlist := r.Group("/watchlist")
	watchlist.Use(requireAuth)
	{
		watchlist.GET("", h.ListWatchlist)
		watchlist.POST("", middleware.Validate[handler.AddWatchlistRequest](), h.AddToWatchlist)
		watchlist.PUT("/:id", middleware.Validate[handler.UpdateWatchlistRequest](), h.UpdateWatchlistItem)
		watchlist.DELETE("/:id", h.DeleteFromWatchlist)
	}
}
