package model

import (
	"fmt"
	"strings"
	"time"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/entity"
)

// AlertStatus is the lifecycle state of an appliance's maintenance alert.
type AlertStatus string

const (
	AlertActive    AlertStatus = "ACTIVE"
	AlertSnoozed   AlertStatus = "SNOOZED"
	AlertCancelled AlertStatus = "CANCELLED"
)

// OrDefault treats an unset status as ACTIVE.
func (s AlertStatus) OrDefault() AlertStatus {
	if s == "" {
		return AlertActive
	}
	return s
}

// ParseAlertStatus accepts any casing; blank means unset.
func ParseAlertStatus(s string) (AlertStatus, error) {
	switch st := AlertStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case "", AlertActive, AlertSnoozed, AlertCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown alert status %q", s)
	}
}

// RecurringInterval describes how an alert repeats.
type RecurringInterval string

const (
	RecurNone    RecurringInterval = "NONE"
	RecurMonthly RecurringInterval = "MONTHLY"
	RecurYearly  RecurringInterval = "YEARLY"
	RecurCustom  RecurringInterval = "CUSTOM"
)

// OrDefault treats an unset interval as NONE.
func (r RecurringInterval) OrDefault() RecurringInterval {
	if r == "" {
		return RecurNone
	}
	return r
}

// ParseRecurringInterval accepts any casing; blank means unset.
func ParseRecurringInterval(s string) (RecurringInterval, error) {
	switch r := RecurringInterval(strings.ToUpper(strings.TrimSpace(s))); r {
	case "", RecurNone, RecurMonthly, RecurYearly, RecurCustom:
		return r, nil
	default:
		return "", fmt.Errorf("unknown recurring interval %q", s)
	}
}

// Appliance is a tracked household appliance and its maintenance alert schedule.
type Appliance struct {
	ID            int64  `gorm:"primaryKey"`
	Name          string `gorm:"size:256;not null" validate:"notblank"`
	Brand         string `gorm:"size:128" validate:"notblank"`
	Model         string `gorm:"size:128" validate:"notblank"`
	Category      string `gorm:"size:64"`
	SerialNumber  string `gorm:"size:128"`
	ConditionText string `gorm:"size:256"`
	Notes         string

	PurchaseDate   *calendar.Date
	WarrantyMonths *int `validate:"omitempty,gte=0"`

	AlertDate             *calendar.Date `gorm:"index"`
	AlertStatus           AlertStatus    `gorm:"size:16"`
	SnoozeUntil           *calendar.Date
	RecurringInterval     RecurringInterval `gorm:"size:16"`
	RecurringIntervalDays *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

var applianceMessages = fieldMessages{
	"Name.notblank":      "Name is required.",
	"Brand.notblank":     "Brand is required.",
	"Model.notblank":     "Model is required.",
	"WarrantyMonths.gte": "Warranty must be ≥ 0.",
}

// EntityID implements entity.Entity.
func (a *Appliance) EntityID() (int64, bool) {
	return a.ID, a.ID != 0
}

// Validate implements entity.Entity.
func (a *Appliance) Validate() []string {
	return messagesFor(a, applianceMessages)
}

// Status returns the alert status with the ACTIVE default applied.
func (a *Appliance) Status() AlertStatus {
	return a.AlertStatus.OrDefault()
}

// Interval returns the recurring interval with the NONE default applied.
func (a *Appliance) Interval() RecurringInterval {
	return a.RecurringInterval.OrDefault()
}

// HasAlert reports whether an alert date is set.
func (a *Appliance) HasAlert() bool {
	return a.AlertDate != nil && !a.AlertDate.IsZero()
}

// ToPayload implements entity.Entity. Empty strings and unset optionals are omitted.
func (a *Appliance) ToPayload() entity.Payload {
	p := entity.Payload{
		"name":              a.Name,
		"brand":             a.Brand,
		"model":             a.Model,
		"category":          a.Category,
		"serialNumber":      a.SerialNumber,
		"conditionText":     a.ConditionText,
		"notes":             a.Notes,
		"purchaseDate":      dateString(a.PurchaseDate),
		"alertDate":         dateString(a.AlertDate),
		"alertStatus":       string(a.AlertStatus),
		"snoozeUntil":       dateString(a.SnoozeUntil),
		"recurringInterval": string(a.RecurringInterval),
	}
	if a.ID != 0 {
		p["id"] = a.ID
	}
	if a.WarrantyMonths != nil {
		p["warrantyMonths"] = *a.WarrantyMonths
	}
	if a.RecurringIntervalDays != nil {
		p["recurringIntervalDays"] = *a.RecurringIntervalDays
	}
	return p.Compact()
}

// ApplianceFromJSON reconstructs an Appliance from a wire mapping, normalizing
// every date-shaped field to a calendar day.
func ApplianceFromJSON(p entity.Payload) (*Appliance, error) {
	var err error
	a := &Appliance{
		Name:          p.String("name"),
		Brand:         p.String("brand"),
		Model:         p.String("model"),
		Category:      p.String("category"),
		SerialNumber:  p.String("serialNumber"),
		ConditionText: p.String("conditionText"),
		Notes:         p.String("notes"),
	}

	if a.ID, err = p.ID(); err != nil {
		return nil, err
	}
	if a.PurchaseDate, err = p.Date("purchaseDate"); err != nil {
		return nil, err
	}
	if a.AlertDate, err = p.Date("alertDate"); err != nil {
		return nil, err
	}
	if a.SnoozeUntil, err = p.Date("snoozeUntil"); err != nil {
		return nil, err
	}
	if a.WarrantyMonths, err = p.Int("warrantyMonths"); err != nil {
		return nil, err
	}
	if a.RecurringIntervalDays, err = p.Int("recurringIntervalDays"); err != nil {
		return nil, err
	}
	if a.AlertStatus, err = ParseAlertStatus(p.String("alertStatus")); err != nil {
		return nil, err
	}
	if a.RecurringInterval, err = ParseRecurringInterval(p.String("recurringInterval")); err != nil {
		return nil, err
	}
	return a, nil
}

func dateString(d *calendar.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.String()
}
