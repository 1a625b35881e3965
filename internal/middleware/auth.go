package middleware

import (
	"adultna_backend/internal/config"
	"adultna_backend/internal/model"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/util"
	"adultna_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthMiddleware(cfg *config.Config, tokens *repository.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		// A token whose login session was expired by the idle monitor (or an
		// explicit logout) is rejected even though its signature is valid.
		if claims.SessionID != "" && tokens != nil {
			revoked, err := tokens.IsRevoked(c.Request.Context(), claims.SessionID)
			if err != nil {
				logger.Log.Warn("revocation check failed", zap.Error(err))
			} else if revoked {
				util.Unauthorized(c)
				c.Abort()
				return
			}
		}

		c.Set("user", claims)
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			// Admins pass every role gate.
			if user.Role == model.RoleAdmin {
				hasRole = true
				break
			}
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

// SessionActivitySink receives an activity signal for a login session. The
// idle manager implements it.
type SessionActivitySink interface {
	Touch(sessionID string)
}

// ActivityMiddleware treats every authenticated request as an activity
// signal: it re-arms the session's idle schedules and updates last-seen.
func ActivityMiddleware(repo UserActivityRepo, sessions SessionActivitySink) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			if sessions != nil && claims.SessionID != "" {
				sessions.Touch(claims.SessionID)
			}
			// Async update, off the request path.
			go repo.UpdateLastSeen(claims.UserID)
		}
		c.Next()
	}
}
