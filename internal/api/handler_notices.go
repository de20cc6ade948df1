package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"appliance-alerts-backend/internal/calendar"
)

// ListNotices handles GET /notices?day=yyyy-mm-dd.
func (h *Handler) ListNotices(c *gin.Context) {
	var day *calendar.Date
	if raw := c.Query("day"); raw != "" {
		d, err := calendar.Parse(raw)
		if err != nil {
			respondError(c, badRequestf("invalid day: %v", err))
			return
		}
		day = &d
	}
	notices, err := h.store.ListNotices(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notices)
}

// MarkNoticeRead handles POST /notices/:id/read.
func (h *Handler) MarkNoticeRead(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	n, err := h.store.MarkNoticeRead(c.Request.Context(), id, h.now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
