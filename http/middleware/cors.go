package middlewares

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/config"
)

// CORSMiddleware allows the comma separated ALLOWED_DOMAINS with credentials, so the admin
// UI on another origin can send the session cookie.
func CORSMiddleware(config *config.EnvConfig) (gin.HandlerFunc, error) {
	var origins []string
	for _, origin := range strings.Split(config.CORS.AllowDomains, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		if config.Environment.Mode == "production" {
			return nil, errors.New("ALLOWED_DOMAINS must be set in production")
		}
		origins = []string{"http://localhost:3000"}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}), nil
}
