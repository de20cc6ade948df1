package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/entity"
	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	loc     *time.Location
	horizon int
	now     func() time.Time
}

// NewHandler creates a new API handler. loc decides which calendar day is
// "today"; horizonDays is the default upcoming window.
func NewHandler(s store.Store, loc *time.Location, horizonDays int) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		store:   s,
		loc:     loc,
		horizon: horizonDays,
		now:     time.Now,
	}
}

func (h *Handler) today() calendar.Date {
	return calendar.Of(h.now().In(h.loc))
}

// badRequest marks malformed input that never reached the domain layer.
type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return badRequest{msg: fmt.Sprintf(format, args...)}
}

// respondError maps error kinds onto status codes. The body is always
// {"error": message}.
func respondError(c *gin.Context, err error) {
	var br badRequest
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &br), errs.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyExists):
		status = http.StatusConflict
	case errs.IsTransition(err):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": message(err)})
}

// message unwraps to the most specific user-facing text.
func message(err error) string {
	var v *errs.ValidationError
	if errors.As(err, &v) {
		return v.Error()
	}
	return err.Error()
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequestf("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

func readPayload(c *gin.Context) (entity.Payload, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, badRequestf("failed to read body: %v", err)
	}
	p, err := entity.Decode(body)
	if err != nil {
		return nil, badRequestf("invalid JSON body: %v", err)
	}
	if p == nil {
		p = entity.Payload{}
	}
	return p, nil
}

// Healthz reports whether the database answers.
func (h *Handler) Healthz(c *gin.Context) {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
