package alert

import (
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/model"
)

// Transitions mutate the appliance in place. On error the appliance is left
// untouched and the error is an *errs.TransitionError.

func reject(op string, err error) error {
	return &errs.TransitionError{Op: op, Err: err}
}

// Snooze hides the alert until today+days.
func Snooze(a *model.Appliance, today calendar.Date, days int) error {
	if days < 1 {
		return reject("snooze", errs.ErrInvalidSnoozeDays)
	}
	return snooze(a, "snooze", today, today.AddDays(days))
}

// SnoozeUntil hides the alert until the given day, which must be after today.
func SnoozeUntil(a *model.Appliance, today, until calendar.Date) error {
	return snooze(a, "snooze until", today, until)
}

func snooze(a *model.Appliance, op string, today, until calendar.Date) error {
	if !a.HasAlert() {
		return reject(op, errs.ErrNoAlertDate)
	}
	if a.Status() == model.AlertCancelled {
		return reject(op, errs.ErrAlertCancelled)
	}
	if !until.After(today) {
		return reject(op, errs.ErrSnoozeNotInFuture)
	}
	a.AlertStatus = model.AlertSnoozed
	a.SnoozeUntil = until.Ptr()
	return nil
}

// Cancel stops the alert from being classified as due or upcoming.
func Cancel(a *model.Appliance) error {
	if !a.HasAlert() {
		return reject("cancel", errs.ErrNoAlertDate)
	}
	a.AlertStatus = model.AlertCancelled
	a.SnoozeUntil = nil
	return nil
}

// Reactivate resumes classification from the current alert date.
func Reactivate(a *model.Appliance) error {
	if !a.HasAlert() {
		return reject("reactivate", errs.ErrNoAlertDate)
	}
	a.AlertStatus = model.AlertActive
	a.SnoozeUntil = nil
	return nil
}

// Complete resolves the current occurrence. Recurring alerts move to their next
// occurrence and become ACTIVE; one-off alerts become CANCELLED.
func Complete(a *model.Appliance) error {
	if !a.HasAlert() {
		return reject("complete", errs.ErrNoAlertDate)
	}
	next, ok, err := NextOccurrence(*a.AlertDate, a.Interval(), a.RecurringIntervalDays)
	if err != nil {
		return reject("complete", err)
	}
	a.SnoozeUntil = nil
	if !ok {
		a.AlertStatus = model.AlertCancelled
		return nil
	}
	a.AlertDate = next.Ptr()
	a.AlertStatus = model.AlertActive
	return nil
}

// NextOccurrence computes the alert date following alertDate. The boolean is
// false when the interval does not recur.
func NextOccurrence(alertDate calendar.Date, interval model.RecurringInterval, days *int) (calendar.Date, bool, error) {
	switch interval.OrDefault() {
	case model.RecurMonthly:
		return alertDate.AddMonths(1), true, nil
	case model.RecurYearly:
		return alertDate.AddYears(1), true, nil
	case model.RecurCustom:
		if days == nil || *days < 1 {
			return calendar.Date{}, false, errs.ErrInvalidSchedule
		}
		return alertDate.AddDays(*days), true, nil
	default:
		return calendar.Date{}, false, nil
	}
}
