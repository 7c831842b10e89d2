package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// headers consulted for the originating client address, in order
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For"}

// RealIP resolves the originating client address and stores it in the
// context under "real_ip". Proxy headers are consulted first; anything
// that does not parse as an IP is ignored and c.ClientIP() is the
// fallback.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", resolveClientIP(c))
		c.Next()
	}
}

func resolveClientIP(c *gin.Context) string {
	for _, h := range clientIPHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For may carry a chain; the left-most entry is the client
		first := strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
