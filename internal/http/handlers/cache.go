package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/http/response"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type CacheHandler struct {
	cache *querycache.Cache
}

func NewCacheHandler(cache *querycache.Cache) *CacheHandler {
	return &CacheHandler{cache: cache}
}

type invalidateRequest struct {
	// Key is a query key prefix, e.g. ["lessons","list"] or
	// ["lessonQuizzes","detail",12]. Whole numbers are treated as ids.
	Key []any `json:"key"`
	// Remove drops the entries instead of marking them stale.
	Remove bool `json:"remove"`
}

// DELETE /api/cache
func (h *CacheHandler) Invalidate(c *gin.Context) {
	var req invalidateRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Key) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_key", errors.New("key must name at least the entity"))
		return
	}
	key := querycache.NewKey(keySegments(req.Key)...)
	var err error
	if req.Remove {
		err = h.cache.Remove(c.Request.Context(), key)
	} else {
		err = h.cache.Invalidate(c.Request.Context(), key)
	}
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "cache_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"key": key})
}

// keySegments turns whole-number segments into id strings, the form the
// services key entities by.
func keySegments(raw []any) []any {
	out := make([]any, len(raw))
	for i, seg := range raw {
		if f, ok := seg.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			out[i] = strconv.FormatInt(int64(f), 10)
			continue
		}
		out[i] = seg
	}
	return out
}
