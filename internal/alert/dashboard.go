package alert

import (
	"fmt"
	"sort"
	"strings"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

// MaxActivity caps the activity feed.
const MaxActivity = 8

const (
	activityWindowDays = 7
	cancelledInFeed    = 2
	recurringInFeed    = 2
)

// Summary is the dashboard overview of a collection of appliances.
type Summary struct {
	Total            int            `json:"total"`
	ByCategory       map[string]int `json:"byCategory"`
	WithoutReminders []string       `json:"withoutReminders"`
	Due              int            `json:"due"`
	Overdue          int            `json:"overdue"`
	Upcoming         int            `json:"upcoming"`
}

// Summarize counts appliances by category and alert state. Upcoming uses the
// same horizon as UpcomingSet.
func Summarize(apps []*model.Appliance, today calendar.Date, horizonDays int) Summary {
	s := Summary{
		Total:            len(apps),
		ByCategory:       make(map[string]int),
		WithoutReminders: make([]string, 0),
	}
	for _, a := range apps {
		category := strings.ToLower(strings.TrimSpace(a.Category))
		if category == "" {
			category = "other"
		}
		s.ByCategory[category]++

		if !a.HasAlert() {
			s.WithoutReminders = append(s.WithoutReminders, a.Name)
			continue
		}
		if IsDue(a, today) {
			s.Due++
			if a.AlertDate.Before(today) {
				s.Overdue++
			}
		}
	}
	s.Upcoming = len(UpcomingSet(apps, today, horizonDays))
	return s
}

// ActivityKind groups feed entries for display.
type ActivityKind string

const (
	KindAlert       ActivityKind = "alert"
	KindMaintenance ActivityKind = "maintenance"
	KindCreated     ActivityKind = "created"
	KindUpdate      ActivityKind = "update"
)

// Activity is a single dashboard feed entry.
type Activity struct {
	Kind          ActivityKind      `json:"type"`
	ApplianceID   int64             `json:"applianceId"`
	ApplianceName string            `json:"applianceName"`
	Description   string            `json:"description"`
	Date          calendar.Date     `json:"date"`
	Status        model.AlertStatus `json:"status,omitempty"`
}

// ActivityFeed builds the dashboard feed: due alerts first, then everything
// else by distance from today. At most MaxActivity entries are returned.
func ActivityFeed(apps []*model.Appliance, today calendar.Date) []Activity {
	out := make([]Activity, 0)

	for _, a := range DueSet(apps, today) {
		desc := "Maintenance due today"
		if overdue := today.DaysSince(*a.AlertDate); overdue > 0 {
			desc = fmt.Sprintf("Maintenance overdue by %s", plural(overdue, "day"))
		}
		out = append(out, entry(a, KindAlert, desc, *a.AlertDate, a.Status()))
	}

	for _, a := range apps {
		if a.Status() == model.AlertSnoozed && a.SnoozeUntil != nil && a.SnoozeUntil.After(today) {
			desc := "Maintenance reminder snoozed until " + a.SnoozeUntil.Time().Format("Jan 2")
			out = append(out, entry(a, KindMaintenance, desc, *a.SnoozeUntil, ""))
		}
	}

	for _, a := range apps {
		if !a.HasAlert() || a.Status() == model.AlertCancelled {
			continue
		}
		if days := DaysUntil(*a.AlertDate, today); days > 0 && days <= activityWindowDays {
			desc := "Maintenance reminder in " + plural(days, "day")
			out = append(out, entry(a, KindCreated, desc, *a.AlertDate, ""))
		}
	}

	cancelled := 0
	for _, a := range apps {
		if cancelled == cancelledInFeed {
			break
		}
		if a.HasAlert() && a.Status() == model.AlertCancelled {
			out = append(out, entry(a, KindUpdate, "Maintenance reminder cancelled", *a.AlertDate, ""))
			cancelled++
		}
	}

	recurring := 0
	for _, a := range apps {
		if recurring == recurringInFeed {
			break
		}
		if a.HasAlert() && a.Interval() != model.RecurNone {
			desc := fmt.Sprintf("Recurring maintenance scheduled (%s)", describeInterval(a))
			out = append(out, entry(a, KindCreated, desc, *a.AlertDate, ""))
			recurring++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Kind == KindAlert, out[j].Kind == KindAlert
		if ai != aj {
			return ai
		}
		return abs(out[i].Date.DaysSince(today)) < abs(out[j].Date.DaysSince(today))
	})

	if len(out) > MaxActivity {
		out = out[:MaxActivity]
	}
	return out
}

func entry(a *model.Appliance, kind ActivityKind, desc string, date calendar.Date, status model.AlertStatus) Activity {
	return Activity{
		Kind:          kind,
		ApplianceID:   a.ID,
		ApplianceName: a.Name,
		Description:   desc,
		Date:          date,
		Status:        status,
	}
}

func describeInterval(a *model.Appliance) string {
	switch a.Interval() {
	case model.RecurMonthly:
		return "monthly"
	case model.RecurYearly:
		return "yearly"
	default:
		if a.RecurringIntervalDays == nil {
			return "custom"
		}
		return "every " + plural(*a.RecurringIntervalDays, "day")
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
