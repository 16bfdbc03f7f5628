package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the API and its two backing stores. The payload
// is public: status words only, never DSNs, versions or hostnames.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		cache := "ok"
		if rdb.Ping(ctx).Err() != nil {
			cache = "down"
		}

		estado := "ok"
		code := http.StatusOK
		if postgres != "ok" || cache != "ok" {
			estado = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   estado,
			"postgres": postgres,
			"redis":    cache,
		})
	}
}
