package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

var today = calendar.MustParse("2024-06-15")

func day(s string) *calendar.Date {
	return calendar.MustParse(s).Ptr()
}

func appliance(id int64, alertDate string) *model.Appliance {
	a := &model.Appliance{ID: id, Name: "Appliance", Brand: "Brand", Model: "Model"}
	if alertDate != "" {
		a.AlertDate = day(alertDate)
	}
	return a
}

func TestIsDue(t *testing.T) {
	testCases := []struct {
		name     string
		app      *model.Appliance
		expected bool
	}{
		{name: "No alert date", app: appliance(1, ""), expected: false},
		{name: "No alert date even if snoozed", app: &model.Appliance{AlertStatus: model.AlertSnoozed, SnoozeUntil: day("2024-06-01")}, expected: false},
		{name: "Due today, status absent", app: appliance(1, "2024-06-15"), expected: true},
		{name: "Overdue", app: appliance(1, "2024-06-01"), expected: true},
		{name: "Future", app: appliance(1, "2024-06-16"), expected: false},
		{name: "Cancelled", app: &model.Appliance{AlertDate: day("2024-06-01"), AlertStatus: model.AlertCancelled}, expected: false},
		{name: "Snoozed until tomorrow", app: &model.Appliance{AlertDate: day("2024-06-01"), AlertStatus: model.AlertSnoozed, SnoozeUntil: day("2024-06-16")}, expected: false},
		{name: "Snooze ends today", app: &model.Appliance{AlertDate: day("2024-06-01"), AlertStatus: model.AlertSnoozed, SnoozeUntil: day("2024-06-15")}, expected: true},
		{name: "Snooze elapsed", app: &model.Appliance{AlertDate: day("2024-06-01"), AlertStatus: model.AlertSnoozed, SnoozeUntil: day("2024-06-10")}, expected: true},
		{name: "Snoozed without until", app: &model.Appliance{AlertDate: day("2024-06-01"), AlertStatus: model.AlertSnoozed}, expected: true},
		{name: "Active ignores stale snoozeUntil", app: &model.Appliance{AlertDate: day("2024-06-01"), AlertStatus: model.AlertActive, SnoozeUntil: day("2024-07-01")}, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsDue(tc.app, today))
		})
	}
}

func TestHumanCountdown(t *testing.T) {
	testCases := []struct {
		days     int
		expected string
	}{
		{days: 0, expected: "Today"},
		{days: 1, expected: "Tomorrow"},
		{days: -1, expected: "1 day overdue"},
		{days: -3, expected: "3 days overdue"},
		{days: 2, expected: "In 2 days"},
		{days: 6, expected: "In 6 days"},
		{days: 7, expected: "In 1 week"},
		{days: 8, expected: "In 2 weeks"},
		{days: 29, expected: "In 5 weeks"},
		{days: 30, expected: "In 1 month"},
		{days: 31, expected: "In 2 months"},
		{days: 365, expected: "In 13 months"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, HumanCountdown(today.AddDays(tc.days), today))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, DaysUntil(today, today))
	assert.Equal(t, 17, DaysUntil(calendar.MustParse("2024-07-02"), today))
	assert.Equal(t, -15, DaysUntil(calendar.MustParse("2024-05-31"), today))
}

func TestSeverityFor(t *testing.T) {
	testCases := []struct {
		days     int
		expected Severity
	}{
		{days: -1, expected: SeverityOverdue},
		{days: 0, expected: SeverityUrgent},
		{days: 3, expected: SeverityUrgent},
		{days: 4, expected: SeverityWarning},
		{days: 14, expected: SeverityWarning},
		{days: 15, expected: SeverityNormal},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, SeverityFor(today.AddDays(tc.days), today), "days=%d", tc.days)
	}
}

func TestDueSet(t *testing.T) {
	apps := []*model.Appliance{
		appliance(1, "2024-06-15"),
		appliance(2, ""),
		appliance(3, "2024-06-20"),
		{ID: 4, AlertDate: day("2024-06-01"), AlertStatus: model.AlertCancelled},
		appliance(5, "2024-05-01"),
	}

	due := DueSet(apps, today)

	assert.Equal(t, []int64{1, 5}, ids(due))
	assert.Empty(t, DueSet(nil, today))
}

func TestUpcomingSet(t *testing.T) {
	apps := []*model.Appliance{
		appliance(1, "2024-07-15"),
		appliance(2, "2024-06-15"),
		appliance(3, "2024-06-20"),
		appliance(9, "2024-06-16"),
		appliance(4, "2024-06-16"),
		{ID: 5, AlertDate: day("2024-06-17"), AlertStatus: model.AlertCancelled},
		appliance(6, "2024-07-16"),
		appliance(7, ""),
		{ID: 8, AlertDate: day("2024-06-18"), AlertStatus: model.AlertSnoozed, SnoozeUntil: day("2024-06-17")},
	}

	upcoming := UpcomingSet(apps, today, 30)

	assert.Equal(t, []int64{4, 9, 8, 3, 1}, ids(upcoming))
	assert.Equal(t, []int64{4, 9}, ids(UpcomingSet(apps, today, 1)))
}

func TestSnoozeSevenDays_EndToEnd(t *testing.T) {
	a := appliance(1, today.String())
	apps := []*model.Appliance{a}

	assert.Equal(t, []int64{1}, ids(DueSet(apps, today)))

	assert.NoError(t, Snooze(a, today, 7))
	assert.Empty(t, DueSet(apps, today))

	for d := 1; d <= 6; d++ {
		assert.False(t, IsDue(a, today.AddDays(d)), "day %d", d)
	}
	assert.True(t, IsDue(a, today.AddDays(7)))
}

func ids(apps []*model.Appliance) []int64 {
	out := make([]int64, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}
