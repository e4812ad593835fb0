package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey holds the resolved client address.
const CtxRealIPKey = "real_ip"

// ConfigureClientIP decides which forwarding headers gin's ClientIP honours.
// X-Forwarded-For and X-Real-IP are only read when the peer is one of
// proxies; an empty list trusts no proxy. platform names a CDN header that is
// always trusted ("cloudflare", "google") and must only be set when every
// request arrives through that CDN.
func ConfigureClientIP(engine *gin.Engine, proxies []string, platform string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := engine.SetTrustedProxies(proxies); err != nil {
		return err
	}
	engine.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "cloudflare":
		engine.TrustedPlatform = gin.PlatformCloudflare
	case "google":
		engine.TrustedPlatform = gin.PlatformGoogleAppEngine
	default:
		engine.TrustedPlatform = ""
	}
	return nil
}

// RealIP stores the client IP, as resolved by gin under the trust rules set
// with ConfigureClientIP, into the Gin context.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxRealIPKey, clientIP(c))
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
