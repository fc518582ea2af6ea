package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tnqbao/charcoal-cms/config"
	"github.com/tnqbao/charcoal-cms/utils"
)

// AuthMiddleware admits requests carrying a valid admin token, from the access_token cookie
// or a bearer header, and stores its claims on the context.
func AuthMiddleware(config *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			utils.JSON401(c, "Authorization token is required")
			return
		}

		parsedToken, err := utils.ParseToken(tokenStr, config)
		if err != nil || !parsedToken.Valid {
			utils.JSON401(c, "Invalid or expired token")
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			utils.JSON401(c, "Invalid token claims")
			return
		}
		if err := utils.InjectClaimsToContext(c, claims); err != nil {
			utils.JSON401(c, "Invalid claims")
			return
		}

		c.Next()
	}
}
