package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/database"
	"github.com/charlesng35/facultysite/pkg/errors"
	"github.com/charlesng35/facultysite/pkg/logger"
	"github.com/charlesng35/facultysite/pkg/response"
)

const healthPingTimeout = 2 * time.Second

// Health reports whether the document store answers a ping.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(requestContext(c), healthPingTimeout)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			logger.WithModule("health").Warn("database ping failed", zap.Error(err))
			response.Error(c, errors.New("SERVICE_UNAVAILABLE", "Database unavailable", http.StatusServiceUnavailable))
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}
