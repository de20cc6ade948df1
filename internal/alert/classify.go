// Package alert classifies appliance maintenance alerts against a reference day
// and applies the snooze, cancel, reactivate and complete transitions.
//
// Every function here is pure: it reads an appliance snapshot and "today" and
// never touches storage.
package alert

import (
	"fmt"
	"sort"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

// Severity drives display coloring and ordering. It is never stored.
type Severity string

const (
	SeverityOverdue Severity = "OVERDUE"
	SeverityUrgent  Severity = "URGENT"
	SeverityWarning Severity = "WARNING"
	SeverityNormal  Severity = "NORMAL"
)

// IsDue reports whether the appliance's alert should be surfaced on today.
func IsDue(a *model.Appliance, today calendar.Date) bool {
	if !a.HasAlert() || a.Status() == model.AlertCancelled {
		return false
	}
	if a.Status() == model.AlertSnoozed && a.SnoozeUntil != nil && !a.SnoozeUntil.IsZero() {
		if today.Before(*a.SnoozeUntil) {
			return false
		}
	}
	return !a.AlertDate.After(today)
}

// DaysUntil is the signed day distance from today to date. Positive is future.
func DaysUntil(date, today calendar.Date) int {
	return date.DaysSince(today)
}

// HumanCountdown renders the distance from today to date for display.
func HumanCountdown(date, today calendar.Date) string {
	days := DaysUntil(date, today)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days < 0:
		return plural(-days, "day") + " overdue"
	case days < 7:
		return fmt.Sprintf("In %d days", days)
	case days < 30:
		return "In " + plural(ceilDiv(days, 7), "week")
	default:
		return "In " + plural(ceilDiv(days, 30), "month")
	}
}

// SeverityFor buckets the distance from today to date.
func SeverityFor(date, today calendar.Date) Severity {
	days := DaysUntil(date, today)
	switch {
	case days < 0:
		return SeverityOverdue
	case days <= 3:
		return SeverityUrgent
	case days <= 14:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// DueSet returns the appliances whose alert is due on today, in input order.
func DueSet(apps []*model.Appliance, today calendar.Date) []*model.Appliance {
	out := make([]*model.Appliance, 0)
	for _, a := range apps {
		if IsDue(a, today) {
			out = append(out, a)
		}
	}
	return out
}

// UpcomingSet returns the non-cancelled appliances whose alert date falls in
// (today, today+horizonDays], ordered by alert date then id.
func UpcomingSet(apps []*model.Appliance, today calendar.Date, horizonDays int) []*model.Appliance {
	out := make([]*model.Appliance, 0)
	for _, a := range apps {
		if !a.HasAlert() || a.Status() == model.AlertCancelled {
			continue
		}
		days := DaysUntil(*a.AlertDate, today)
		if days > 0 && days <= horizonDays {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := *out[i].AlertDate, *out[j].AlertDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
