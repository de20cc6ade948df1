package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

// ApplianceRepository is the appliance collection plus its alert actions.
type ApplianceRepository struct {
	*Repository[*model.Appliance]
}

// NewApplianceRepository returns the repository for /appliances.
func NewApplianceRepository(api *APIClient) *ApplianceRepository {
	return &ApplianceRepository{NewRepository[*model.Appliance](api, "/appliances", model.ApplianceFromJSON)}
}

func (r *ApplianceRepository) action(ctx context.Context, id int64, action string, query url.Values) (*model.Appliance, error) {
	return r.post(ctx, r.itemPath(id)+"/alert/"+action, query)
}

// Snooze hides the alert for days days.
func (r *ApplianceRepository) Snooze(ctx context.Context, id int64, days int) (*model.Appliance, error) {
	return r.action(ctx, id, "snooze", url.Values{"days": {strconv.Itoa(days)}})
}

// SnoozeUntil hides the alert until the given day.
func (r *ApplianceRepository) SnoozeUntil(ctx context.Context, id int64, until calendar.Date) (*model.Appliance, error) {
	return r.action(ctx, id, "snooze", url.Values{"until": {until.String()}})
}

func (r *ApplianceRepository) Cancel(ctx context.Context, id int64) (*model.Appliance, error) {
	return r.action(ctx, id, "cancel", nil)
}

func (r *ApplianceRepository) Reactivate(ctx context.Context, id int64) (*model.Appliance, error) {
	return r.action(ctx, id, "reactivate", nil)
}

// Complete resolves the current occurrence on the server.
func (r *ApplianceRepository) Complete(ctx context.Context, id int64) (*model.Appliance, error) {
	return r.action(ctx, id, "complete", nil)
}

// Due fetches the server's due set.
func (r *ApplianceRepository) Due(ctx context.Context) ([]*model.Appliance, error) {
	raw, err := r.api.do(ctx, http.MethodGet, "/alerts/due", nil, nil)
	if err != nil {
		return nil, err
	}
	return r.many(raw)
}

// Upcoming fetches the server's upcoming set. days <= 0 uses the server default.
func (r *ApplianceRepository) Upcoming(ctx context.Context, days int) ([]*model.Appliance, error) {
	var q url.Values
	if days > 0 {
		q = url.Values{"days": {strconv.Itoa(days)}}
	}
	raw, err := r.api.do(ctx, http.MethodGet, "/alerts/upcoming", q, nil)
	if err != nil {
		return nil, err
	}
	return r.many(raw)
}
