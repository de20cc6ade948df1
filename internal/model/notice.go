package model

import (
	"time"

	"appliance-alerts-backend/internal/calendar"
)

// Notice is an in-app notification raised for a due maintenance alert.
type Notice struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	ApplianceID int64         `gorm:"index;not null" json:"applianceId"`
	Day         calendar.Date `gorm:"index;not null" json:"day"`
	AlertDate   calendar.Date `gorm:"not null" json:"alertDate"`
	Title       string        `gorm:"size:256;not null" json:"title"`
	Message     string        `gorm:"size:512;not null" json:"message"`
	Severity    string        `gorm:"size:16;not null" json:"severity"`
	CreatedAt   time.Time     `gorm:"not null" json:"createdAt"`
	ReadAt      *time.Time    `json:"readAt,omitempty"`
}

// ShownAlert records that an appliance's due alert was surfaced on a given day.
type ShownAlert struct {
	Day         string    `gorm:"primaryKey;size:10"`
	ApplianceID int64     `gorm:"primaryKey;autoIncrement:false"`
	ShownAt     time.Time `gorm:"not null"`
}

// TableName implements the GORM tabler interface.
func (ShownAlert) TableName() string { return "shown_alerts" }
