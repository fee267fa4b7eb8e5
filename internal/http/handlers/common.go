package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"horizontravels/internal/domain"
	"horizontravels/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid JSON payload", gin.H{"reason": err.Error()})
		return false
	}
	return true
}

// paramID parses a positive path id, responding 400 when it is not one.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid "+name, gin.H{"field": name})
		return 0, false
	}
	return id, true
}

// pagination reads ?page=&limit=. Missing values mean "everything".
func pagination(c *gin.Context) (domain.Pagination, bool) {
	var p domain.Pagination
	for _, q := range []struct {
		name string
		dst  *int
	}{{"page", &p.Page}, {"limit", &p.Limit}} {
		raw := strings.TrimSpace(c.Query(q.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "validation_error", q.name+" must be a positive integer", gin.H{"field": q.name})
			return p, false
		}
		*q.dst = n
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if p.Page > 0 && p.Limit == 0 {
		p.Limit = maxPageSize
	}
	return p, true
}

// caller returns the session identity; zero value for anonymous requests.
func caller(c *gin.Context) (domain.RequestContext, bool) {
	return middleware.GetRequestContext(c)
}

func callerID(c *gin.Context) *int64 {
	rc, ok := caller(c)
	if !ok || rc.UserID <= 0 {
		return nil
	}
	id := rc.UserID
	return &id
}
