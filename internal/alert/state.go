package alert

import (
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

// State is the display state of an alert on a given day.
type State string

const (
	StateNoAlert   State = "NO_ALERT"
	StateScheduled State = "SCHEDULED"
	StateDue       State = "DUE"
	StateOverdue   State = "OVERDUE"
	StateSnoozed   State = "SNOOZED"
	StateCancelled State = "CANCELLED"
)

// Action is a lifecycle operation offered to the user.
type Action string

const (
	ActionSnooze     Action = "snooze"
	ActionCancel     Action = "cancel"
	ActionComplete   Action = "complete"
	ActionReactivate Action = "reactivate"
)

// StateOf classifies a single appliance. A snooze that has elapsed reports the
// underlying due or overdue state.
func StateOf(a *model.Appliance, today calendar.Date) State {
	if !a.HasAlert() {
		return StateNoAlert
	}
	if a.Status() == model.AlertCancelled {
		return StateCancelled
	}
	if !IsDue(a, today) {
		if a.Status() == model.AlertSnoozed && a.SnoozeUntil != nil && today.Before(*a.SnoozeUntil) {
			return StateSnoozed
		}
		return StateScheduled
	}
	if a.AlertDate.Before(today) {
		return StateOverdue
	}
	return StateDue
}

// Actions returns the operations a user may trigger. Only due alerts expose
// snooze, cancel and complete; snoozed or cancelled alerts can always be
// reactivated.
func Actions(a *model.Appliance, today calendar.Date) []Action {
	out := make([]Action, 0, 4)
	if !a.HasAlert() {
		return out
	}
	if IsDue(a, today) {
		out = append(out, ActionSnooze, ActionCancel, ActionComplete)
	}
	if s := a.Status(); s == model.AlertSnoozed || s == model.AlertCancelled {
		out = append(out, ActionReactivate)
	}
	return out
}
