package handler

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-watchlist/internal/middleware"
	"github.com/user/moovie-watchlist/internal/model"
	"github.com/user/moovie-watchlist/internal/repository"
	"github.com/user/moovie-watchlist/internal/utils"
)

const (
	msgUserExists         = "User already exists with this email address"
	msgInvalidCredentials = "Invalid email or password"
)

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// compareDummy 用户不存在时也做一次 bcrypt 比较，避免响应时间泄露邮箱是否注册
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = repository.HashPassword("not-a-real-password")
	})
	repository.CheckPassword(dummyHash, password)
}

// authResponse 登录/注册返回体
type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	req := middleware.Payload[RegisterRequest](c)

	// 检查邮箱是否已存在
	existing, err := h.Users.FindByEmail(req.Email)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to register user", err))
		return
	}
	if existing != nil {
		utils.Fail(c, utils.DuplicateError(msgUserExists))
		return
	}

	// 并发注册时由唯一索引兜底
	user, err := h.Users.Create(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, utils.DuplicateError(msgUserExists))
			return
		}
		utils.Fail(c, utils.InternalError("Failed to register user", err))
		return
	}

	token, ok := h.issueToken(c, user)
	if !ok {
		return
	}

	h.Logger.Info("user registered", "user_id", user.ID)
	utils.Created(c, authResponse{User: user, Token: token})
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	req := middleware.Payload[LoginRequest](c)

	// 查找用户
	user, err := h.Users.FindByEmail(req.Email)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to log in", err))
		return
	}
	if user == nil {
		compareDummy(req.Password)
		utils.Fail(c, utils.AuthenticationError(msgInvalidCredentials))
		return
	}

	// 验证密码
	if !h.Users.CheckPassword(user, req.Password) {
		utils.Fail(c, utils.AuthenticationError(msgInvalidCredentials))
		return
	}

	token, ok := h.issueToken(c, user)
	if !ok {
		return
	}

	utils.Success(c, authResponse{User: user, Token: token})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearAuthCookie(c, h.Config.IsProduction())
	utils.SuccessWithMessage(c, "Logged out successfully", nil)
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	utils.Success(c, middleware.CurrentUser(c))
}

// issueToken 生成 JWT 并写入 Cookie
func (h *Handler) issueToken(c *gin.Context, user *model.User) (string, bool) {
	token, err := middleware.GenerateToken(user.ID, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.Fail(c, utils.InternalError("Failed to generate token", err))
		return "", false
	}

	middleware.SetAuthCookie(c, token, h.Config.IsProduction())
	return token, true
}
