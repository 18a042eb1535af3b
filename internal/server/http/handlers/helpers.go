package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/server/http/dto"
	"github.com/polkiloo/craftmarket/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	actor, _ := middleware.CurrentActor(c)
	return actor
}

// statusFor maps domain errors onto HTTP status codes. Order matters:
// specific errors are checked before the category they wrap.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrForbidden), errors.Is(err, domainErrors.ErrAccountNotApproved):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal failures are not echoed to clients.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	body := dto.ErrorResponse{Error: err.Error()}
	if status >= http.StatusInternalServerError {
		body.Error = http.StatusText(status)
	}
	if current, ok := domainErrors.CurrentState(err); ok {
		body.CurrentStatus = current
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string, details map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: message, Details: details})
}

// bindJSON decodes the body into req and reports binding failures as 400.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	_ = c.Error(err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = describeRule(fe)
		}
		badRequest(c, "validation failed", details)
		return false
	}
	badRequest(c, "malformed request body", nil)
	return false
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "is too long"
	case "mobile":
		return "must be a valid mobile number"
	default:
		return "failed " + fe.Tag()
	}
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("invalid %s", name), nil)
		return 0, false
	}
	return id, true
}

// dateQuery parses an optional date bound given as RFC 3339 or YYYY-MM-DD.
// A bare "to" date covers the whole day.
func dateQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid %s date", name), nil)
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
