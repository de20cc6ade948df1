package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"appliance-alerts-backend/internal/alert"
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/entity"
	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/metrics"
	"appliance-alerts-backend/internal/model"
)

// ListAppliances handles GET /appliances.
func (h *Handler) ListAppliances(c *gin.Context) {
	apps, err := h.store.ListAppliances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]entity.Payload, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ToPayload())
	}
	c.JSON(http.StatusOK, out)
}

// GetAppliance handles GET /appliances/:id.
func (h *Handler) GetAppliance(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	a, err := h.store.GetAppliance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.ToPayload())
}

// CreateAppliance handles POST /appliances.
func (h *Handler) CreateAppliance(c *gin.Context) {
	p, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	a, err := model.ApplianceFromJSON(p)
	if err != nil {
		respondError(c, badRequestf("%v", err))
		return
	}
	a.ID = 0
	if err := errs.NewValidationError(a.Validate()); err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.CreateAppliance(c.Request.Context(), a); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a.ToPayload())
}

// UpdateAppliance handles PATCH /appliances/:id. The patch is merged onto the
// stored appliance; a null value clears the field. The merged result must
// validate.
func (h *Handler) UpdateAppliance(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	patch, err := readPayload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	delete(patch, "id")

	updated, err := h.store.MutateAppliance(c.Request.Context(), id, func(cur *model.Appliance) error {
		next, err := model.ApplianceFromJSON(cur.ToPayload().Merge(patch))
		if err != nil {
			return badRequestf("%v", err)
		}
		if err := errs.NewValidationError(next.Validate()); err != nil {
			return err
		}
		next.ID = cur.ID
		next.CreatedAt = cur.CreatedAt
		*cur = *next
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToPayload())
}

// DeleteAppliance handles DELETE /appliances/:id.
func (h *Handler) DeleteAppliance(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.store.DeleteAppliance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AlertAction handles POST /appliances/:id/alert/:action.
func (h *Handler) AlertAction(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	action := alert.Action(c.Param("action"))
	transition, err := h.transitionFor(c, action)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.store.MutateAppliance(c.Request.Context(), id, transition)
	if err != nil {
		metrics.Transitions.WithLabelValues(string(action), metrics.ResultError).Inc()
		respondError(c, err)
		return
	}
	metrics.Transitions.WithLabelValues(string(action), metrics.ResultOK).Inc()
	c.JSON(http.StatusOK, decorate(updated, h.today()))
}

func (h *Handler) transitionFor(c *gin.Context, action alert.Action) (func(*model.Appliance) error, error) {
	today := h.today()
	switch action {
	case alert.ActionSnooze:
		if raw := c.Query("until"); raw != "" {
			until, err := calendar.Parse(raw)
			if err != nil {
				return nil, badRequestf("invalid until: %v", err)
			}
			return func(a *model.Appliance) error { return alert.SnoozeUntil(a, today, until) }, nil
		}
		raw := c.Query("days")
		if raw == "" {
			return nil, badRequestf("days or until is required")
		}
		days, err := strconv.Atoi(raw)
		if err != nil {
			return nil, badRequestf("invalid days %q", raw)
		}
		return func(a *model.Appliance) error { return alert.Snooze(a, today, days) }, nil
	case alert.ActionCancel:
		return alert.Cancel, nil
	case alert.ActionReactivate:
		return alert.Reactivate, nil
	case alert.ActionComplete:
		return alert.Complete, nil
	default:
		return nil, badRequestf("unknown alert action %q", action)
	}
}

// decorate adds the display fields the alert views need.
func decorate(a *model.Appliance, today calendar.Date) entity.Payload {
	p := a.ToPayload()
	p["state"] = alert.StateOf(a, today)
	p["actions"] = alert.Actions(a, today)
	if a.HasAlert() {
		p["daysUntil"] = alert.DaysUntil(*a.AlertDate, today)
		p["countdown"] = alert.HumanCountdown(*a.AlertDate, today)
		p["severity"] = alert.SeverityFor(*a.AlertDate, today)
	}
	return p
}
