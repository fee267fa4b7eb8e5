package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"horizontravels/internal/cache"
	"horizontravels/internal/utils"

	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

// IdempotencyGuard is the subset of cache.IdempotencyStore the middleware needs.
type IdempotencyGuard interface {
	Begin(ctx context.Context, key string) ([]byte, error)
	Complete(ctx context.Context, key string, response []byte) error
	Release(ctx context.Context, key string) error
}

type storedResponse struct {
	Status      int             `json:"status"`
	Body        json.RawMessage `json:"body"`
	RequestHash string          `json:"request_hash"`
}

// requestHash reads the body, puts it back for the handler and returns its sha256.
func requestHash(c *gin.Context) (string, error) {
	var raw []byte
	if c.Request.Body != nil {
		var err error
		raw, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a request repeats its
// Idempotency-Key with the same body. Reusing a key with a different body is
// rejected with 422. Requests without the header, or with a nil guard, pass through.
// Anonymous keys are scoped by client IP.
func Idempotency(guard IdempotencyGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
		if guard == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > 128 {
			abortJSON(c, http.StatusBadRequest, "validation_error", "Idempotency-Key is too long")
			return
		}
		hash, err := requestHash(c)
		if err != nil {
			abortJSON(c, http.StatusBadRequest, "validation_error", "could not read request body")
			return
		}
		scope := "anonymous:" + c.ClientIP()
		if rc, ok := GetRequestContext(c); ok {
			scope = fmt.Sprintf("user:%d", rc.UserID)
		}
		key = scope + ":" + c.FullPath() + ":" + key
		ctx := c.Request.Context()
		reqID := GetRequestID(c)

		stored, err := guard.Begin(ctx, key)
		switch {
		case errors.Is(err, cache.ErrInFlight):
			abortJSON(c, http.StatusConflict, "idempotency_in_flight", err.Error())
			return
		case err != nil:
			utils.LogWarn(reqID, "idempotency", "begin", err.Error())
			c.Next()
			return
		case stored != nil:
			var resp storedResponse
			if jerr := json.Unmarshal(stored, &resp); jerr == nil && resp.Status != 0 {
				if resp.RequestHash != hash {
					abortJSON(c, http.StatusUnprocessableEntity, "idempotency_key_reused", "Idempotency-Key was already used with a different request body")
					return
				}
				c.Header("X-Idempotency-Hit", "true")
				c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
				c.Abort()
				return
			}
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if status >= 200 && status < 300 && json.Valid(w.body.Bytes()) {
			payload, _ := json.Marshal(storedResponse{Status: status, Body: w.body.Bytes(), RequestHash: hash})
			if err := guard.Complete(ctx, key, payload); err != nil {
				utils.LogWarn(reqID, "idempotency", "complete", err.Error())
			}
			return
		}
		if err := guard.Release(ctx, key); err != nil {
			utils.LogWarn(reqID, "idempotency", "release", err.Error())
		}
	}
}
