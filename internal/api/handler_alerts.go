package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"appliance-alerts-backend/internal/alert"
	"appliance-alerts-backend/internal/entity"
	"appliance-alerts-backend/internal/model"
)

// maxHorizonDays bounds ?days on the upcoming view.
const maxHorizonDays = 366

func decorateAll(apps []*model.Appliance, h *Handler) []entity.Payload {
	today := h.today()
	out := make([]entity.Payload, 0, len(apps))
	for _, a := range apps {
		out = append(out, decorate(a, today))
	}
	return out
}

// DueAlerts handles GET /alerts/due.
func (h *Handler) DueAlerts(c *gin.Context) {
	apps, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decorateAll(alert.DueSet(apps, h.today()), h))
}

// UpcomingAlerts handles GET /alerts/upcoming?days=N.
func (h *Handler) UpcomingAlerts(c *gin.Context) {
	horizon := h.horizon
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHorizonDays {
			respondError(c, badRequestf("days must be between 1 and %d", maxHorizonDays))
			return
		}
		horizon = n
	}

	apps, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decorateAll(alert.UpcomingSet(apps, h.today(), horizon), h))
}

// AlertSummary handles GET /alerts/summary.
func (h *Handler) AlertSummary(c *gin.Context) {
	apps, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert.Summarize(apps, h.today(), h.horizon))
}

// AlertActivity handles GET /alerts/activity.
func (h *Handler) AlertActivity(c *gin.Context) {
	apps, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert.ActivityFeed(apps, h.today()))
}
