package model

import (
	"time"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/entity"
)

// User is an account that owns appliances.
type User struct {
	ID        int64  `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;size:256;not null" validate:"required,email"`
	Name      string `gorm:"size:256;not null" validate:"notblank"`
	FirstName string `gorm:"size:128"`
	LastName  string `gorm:"size:128"`
	Birthday  *calendar.Date

	// Password is write-only: accepted from clients, never stored or echoed.
	Password     string `gorm:"-"`
	PasswordHash []byte
	PasswordSalt []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

var userMessages = fieldMessages{
	"Email.required": "Email is required",
	"Email.email":    "Email is invalid",
	"Name.notblank":  "Name is required",
}

// EntityID implements entity.Entity.
func (u *User) EntityID() (int64, bool) {
	return u.ID, u.ID != 0
}

// Validate implements entity.Entity.
func (u *User) Validate() []string {
	return messagesFor(u, userMessages)
}

// ToPayload implements entity.Entity.
func (u *User) ToPayload() entity.Payload {
	p := entity.Payload{
		"name":      u.Name,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"birthday":  dateString(u.Birthday),
		"password":  u.Password,
	}
	if u.ID != 0 {
		p["id"] = u.ID
	}
	return p.Compact()
}

// UserFromJSON reconstructs a User from a wire mapping.
func UserFromJSON(p entity.Payload) (*User, error) {
	var err error
	u := &User{
		Name:      p.String("name"),
		Email:     p.String("email"),
		FirstName: p.String("firstName"),
		LastName:  p.String("lastName"),
		Password:  p.String("password"),
	}
	if u.ID, err = p.ID(); err != nil {
		return nil, err
	}
	if u.Birthday, err = p.Date("birthday"); err != nil {
		return nil, err
	}
	return u, nil
}
