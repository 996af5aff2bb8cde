package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/pkg/errors"
	"github.com/charlesng35/facultysite/pkg/logger"
	"github.com/charlesng35/facultysite/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
)

// SessionChecker reports whether a session is still usable.
type SessionChecker interface {
	IsActive(ctx context.Context, sessionID string) (bool, error)
}

// Auth enforces JWT authentication using the supplied JWT service. When
// sessions is non-nil, tokens bound to a revoked or expired session are
// rejected as well.
func Auth(jwt *iauth.JWTService, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			unauthorized(c)
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			unauthorized(c)
			return
		}

		if sessions != nil && claims.SessionID != "" {
			active, err := sessions.IsActive(c.Request.Context(), claims.SessionID)
			if err != nil {
				logger.WithModule("auth").Warn("session lookup failed",
					zap.String("session_id", claims.SessionID),
					zap.Error(err),
				)
				response.Error(c, errors.ErrInternalServer.WithInternal(err))
				c.Abort()
				return
			}
			if !active {
				unauthorized(c)
				return
			}
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		if claims.SessionID != "" {
			c.Set(CtxSessionIDKey, claims.SessionID)
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error(c, errors.ErrUnauthorized)
	c.Abort()
}
