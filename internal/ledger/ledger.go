// Package ledger records which due alerts have already been surfaced on a given
// calendar day, so each (day, appliance) pair is raised at most once.
package ledger

import (
	"context"
	"fmt"
	"strconv"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

// Ledger is safe for concurrent use. MarkShown is atomic per key.
type Ledger interface {
	HasBeenShown(ctx context.Context, day calendar.Date, applianceID int64) (bool, error)
	MarkShown(ctx context.Context, day calendar.Date, applianceID int64) error
}

// Key is the storage key of a (day, appliance) pair.
func Key(day calendar.Date, applianceID int64) string {
	return day.String() + "/" + strconv.FormatInt(applianceID, 10)
}

// Unshown filters apps down to those not yet shown on day, preserving order.
func Unshown(ctx context.Context, l Ledger, day calendar.Date, apps []*model.Appliance) ([]*model.Appliance, error) {
	out := make([]*model.Appliance, 0, len(apps))
	for _, a := range apps {
		shown, err := l.HasBeenShown(ctx, day, a.ID)
		if err != nil {
			return nil, fmt.Errorf("ledger lookup for appliance %d: %w", a.ID, err)
		}
		if !shown {
			out = append(out, a)
		}
	}
	return out, nil
}
