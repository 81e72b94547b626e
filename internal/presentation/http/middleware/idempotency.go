package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/repository"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	// Now defaults to time.Now
	Now func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyRequired rejects saves without an Idempotency-Key and replays
// the stored response when a key is seen again for the same path. A key
// reused with a different body is a conflict.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Idempotency-Key header is required for this request",
			})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Could not read request body",
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		hash := hex.EncodeToString(sum[:])

		ctx := c.Request.Context()
		endpoint := c.Request.Method + " " + c.Request.URL.Path

		existing, err := config.Repo.GetByKey(ctx, endpoint, key)
		if err != nil {
			log.Printf("Idempotency lookup %s %q failed: %v", endpoint, key, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Failed to check idempotency key",
			})
			return
		}

		if existing != nil && existing.IsExpired(now()) {
			if err := config.Repo.DeleteExpired(ctx, now()); err != nil {
				log.Printf("Idempotency cleanup failed: %v", err)
			}
			existing = nil
		}

		if existing != nil {
			if existing.RequestHash != "" && existing.RequestHash != hash {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"success": false,
					"message": "Idempotency-Key was already used with a different request",
				})
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Failed saves may be retried with the same key
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		ikey := &entity.IdempotencyKey{
			Key:          key,
			Endpoint:     endpoint,
			RequestHash:  hash,
			ResponseCode: c.Writer.Status(),
			ResponseBody: blw.body.String(),
			ExpiresAt:    now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(ctx, ikey); err != nil {
			log.Printf("Idempotency store %s %q failed: %v", endpoint, key, err)
		}
	}
}
