package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-social-users/internal/interface/http"
	"github.com/oksasatya/go-social-users/internal/interface/middleware"
	"github.com/oksasatya/go-social-users/pkg/helpers"
)

// SessionModule: POST /login, POST /refresh public; POST /logout protected.
type SessionModule struct {
	Handler *handlers.SessionHandler
	Redis   *redis.Client
	JWT     *helpers.JWTManager
}

func NewSessionModule(h *handlers.SessionHandler, rdb *redis.Client, jwt *helpers.JWTManager) *SessionModule {
	return &SessionModule{Handler: h, Redis: rdb, JWT: jwt}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)   // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil) // 60 req/min per IP

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/logout", middleware.Auth(m.Redis, m.JWT), m.Handler.Logout)
}
