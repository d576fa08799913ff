package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/genproxy/internal/auth/domain"
)

const headerAllowOrigin = "Access-Control-Allow-Origin"

// createCORSMiddleware opens the proxy to every origin.
//
// gin-contrib/cors answers browser preflights (OPTIONS carrying Origin) and decorates
// cross-origin requests. The fallback covers requests without Origin: every response
// gets Access-Control-Allow-Origin: * and every OPTIONS request ends with 200 and no
// body, before admission or forwarding.
func createCORSMiddleware(logger *slog.Logger) []gin.HandlerFunc {
	config := cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			authDomain.HeaderSignature,
			authDomain.HeaderTimestamp,
			authDomain.HeaderNonce,
			authDomain.HeaderAdminPass,
		},
		ExposeHeaders: []string{
			"X-Request-Id",
		},
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusOK,
	}

	logger.Debug("CORS enabled for all origins")

	return []gin.HandlerFunc{cors.New(config), allowAnyOrigin()}
}

func allowAnyOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(headerAllowOrigin, "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
