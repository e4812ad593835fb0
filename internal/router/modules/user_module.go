package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-social-users/internal/interface/http"
	"github.com/oksasatya/go-social-users/internal/interface/middleware"
	"github.com/oksasatya/go-social-users/pkg/helpers"
)

// UserModule mounts the user mappers.
// Public: POST /users, POST /users/verified, POST /users/additional-data,
// GET /users/search, GET /users/:id/mini
// Protected: GET /users/:id, GET|PATCH /profile, POST /users/me/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	createLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	enrichLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	readLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/users", createLimiter, m.Handler.Create)
	rg.POST("/users/verified", createLimiter, m.Handler.CreateVerified)
	rg.POST("/users/additional-data", enrichLimiter, m.Handler.AdditionalData)
	rg.GET("/users/search", readLimiter, m.Handler.Search)
	rg.GET("/users/:id/mini", readLimiter, m.Handler.Mini)

	auth := rg.Group("/")
	auth.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users/:id", m.Handler.Detail)
		auth.POST("/users/me/avatar", m.Handler.UploadAvatar)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PATCH("/profile", m.Handler.UpdateProfile)
	}
}
