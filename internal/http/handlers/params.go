package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/domain/ident"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/http/response"
	"github.com/yungbote/lesson-admin/internal/platform/apierr"
)

var (
	errValidation  = errors.New("validation failed")
	errEmptyUpdate = errors.New("nothing to update")
)

// pathID parses a path parameter, writing a 400 when it is malformed.
func pathID(c *gin.Context, name string) (domain.ID, bool) {
	id, err := ident.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return "", false
	}
	return id, true
}

// queryID parses a required query parameter.
func queryID(c *gin.Context, name string) (domain.ID, bool) {
	id, err := ident.Parse(c.Query(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_"+name, err)
		return "", false
	}
	return id, true
}

// listParams reads page, perPage and search plus the named filters.
func listParams(c *gin.Context, filters ...string) api.ListParams {
	p := api.ListParams{
		Page:    atoi(c.Query("page")),
		PerPage: atoi(c.Query("perPage")),
		Search:  strings.TrimSpace(c.Query("search")),
	}
	for _, f := range filters {
		if v := strings.TrimSpace(c.Query(f)); v != "" {
			if p.Filters == nil {
				p.Filters = map[string]string{}
			}
			p.Filters[f] = v
		}
	}
	return p
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// bindJSON decodes the body into dst, writing a 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	return true
}

// validate writes a 422 with field errors when in is invalid.
func validate(c *gin.Context, v *forms.Validator, in any) bool {
	if fe := v.Struct(in); fe != nil {
		response.RespondErr(c, apierr.Validation(errValidation, fe))
		return false
	}
	return true
}

func respondInvalid(c *gin.Context, field, msg string) {
	response.RespondErr(c, apierr.Validation(errValidation, map[string][]string{field: {msg}}))
}
