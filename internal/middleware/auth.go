package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/user/moovie-watchlist/internal/model"
	"github.com/user/moovie-watchlist/internal/utils"
)

const (
	// CookieName 认证 Cookie 名
	CookieName = "jwt"
	// CookieMaxAge Cookie 有效期 7 天（秒）
	CookieMaxAge = 7 * 24 * 60 * 60

	userKey = "user"
)

// Claims JWT 声明
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// UserFinder 按 ID 加载用户
type UserFinder interface {
	FindByID(id uuid.UUID) (*model.User, error)
}

// RequireAuth 必须登录中间件。Header 优先于 Cookie，校验失败一律 401。
func RequireAuth(jwtSecret string, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.Fail(c, utils.AuthenticationError("Unauthorized - No token provided"))
			return
		}

		userID, err := ParseToken(tokenString, jwtSecret)
		if err != nil {
			utils.Fail(c, utils.AuthenticationError("Unauthorized - Invalid token"))
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			utils.Fail(c, utils.InternalError("Failed to authenticate request", err))
			return
		}
		if user == nil {
			utils.Fail(c, utils.AuthenticationError("Unauthorized - User not found"))
			return
		}

		// 将用户信息存入上下文
		c.Set(userKey, user)
		c.Next()
	}
}

// extractToken 从 Authorization Header 或 Cookie 中取 Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token
		}
	}

	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser 从上下文获取当前用户（未经过 RequireAuth 时返回 nil）
func CurrentUser(c *gin.Context) *model.User {
	if v, exists := c.Get(userKey); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID 从上下文获取用户 ID（未登录返回 uuid.Nil）
func GetUserID(c *gin.Context) uuid.UUID {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// GenerateToken 生成 JWT Token
func GenerateToken(userID uuid.UUID, jwtSecret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ParseToken 校验 Token 并返回用户 ID
func ParseToken(tokenString, jwtSecret string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.Join(jwt.ErrTokenInvalidClaims, err)
	}
	return userID, nil
}

// SetAuthCookie 写入认证 Cookie
func SetAuthCookie(c *gin.Context, token string, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearAuthCookie 用已过期的 Cookie 覆盖
func ClearAuthCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
