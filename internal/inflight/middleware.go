package inflight

import (
	"context"
	"net/http"
	"time"

	"vox-console/internal/auth"
	"vox-console/internal/rbac"
	"vox-console/pkg/logger"
	"vox-console/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Slots is the minimal counting-semaphore interface needed by the middleware.
// *utils.RedisSlots implements it.
type Slots interface {
	Acquire(ctx context.Context, key string, limit int, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Recorder receives cap outcomes. *metrics.Metrics implements it.
type Recorder interface {
	RecordInflightRejected(clientID string)
	RecordInflightError()
}

// DefaultTTL bounds how long a leaked slot survives a crashed process.
const DefaultTTL = 2 * time.Minute

type Options struct {
	Limit    int
	TTL      time.Duration
	Recorder Recorder
}

// Cap limits concurrent console requests per tenant.
//
// - client_id comes from the auth context; run it after auth.RequireSession.
// - the service role bypasses.
// - a slot store failure lets the request through and is logged.
// - a full pool answers 429.
func Cap(slots Slots, opts Options) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		role, _ := auth.Role(ctx)
		if rbac.IsService(role) {
			c.Next()
			return
		}

		clientID, err := auth.ClientID(ctx)
		if err != nil || clientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "client_id required"})
			return
		}

		key := utils.InflightKey(clientID)
		ok, err := slots.Acquire(ctx, key, opts.Limit, opts.TTL)
		if err != nil {
			logger.FromGin(c).Warn("inflight cap unavailable", "client_id", clientID, "err", err)
			if opts.Recorder != nil {
				opts.Recorder.RecordInflightError()
			}
			c.Next()
			return
		}
		if !ok {
			if opts.Recorder != nil {
				opts.Recorder.RecordInflightRejected(clientID)
			}
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests in flight"})
			return
		}

		defer func() {
			// Release even if the client went away.
			if err := slots.Release(context.WithoutCancel(ctx), key); err != nil {
				logger.FromGin(c).Warn("inflight release failed", "client_id", clientID, "err", err)
			}
		}()
		c.Next()
	}
}
