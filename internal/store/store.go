package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/model"
)

// ApplianceStore persists appliances.
type ApplianceStore interface {
	ListAppliances(ctx context.Context) ([]*model.Appliance, error)
	GetAppliance(ctx context.Context, id int64) (*model.Appliance, error)
	CreateAppliance(ctx context.Context, a *model.Appliance) error
	DeleteAppliance(ctx context.Context, id int64) error
	// MutateAppliance loads, mutates and saves an appliance in one transaction.
	// Nothing is written when fn returns an error.
	MutateAppliance(ctx context.Context, id int64, fn func(*model.Appliance) error) (*model.Appliance, error)
	// ReleaseElapsedSnoozes returns SNOOZED appliances whose snooze ended on or
	// before today to ACTIVE.
	ReleaseElapsedSnoozes(ctx context.Context, today calendar.Date) (int64, error)
}

// UserStore persists users. Plain passwords are hashed on write.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	SaveUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

// NoticeStore persists the in-app notice inbox.
type NoticeStore interface {
	CreateNotice(ctx context.Context, n *model.Notice) error
	ListNotices(ctx context.Context, day *calendar.Date) ([]*model.Notice, error)
	MarkNoticeRead(ctx context.Context, id int64, at time.Time) (*model.Notice, error)
}

// Store defines the interface for all database operations.
type Store interface {
	ApplianceStore
	UserStore
	NoticeStore
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for collaborators sharing it.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// translate maps driver-level errors onto the shared error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.ErrAlreadyExists
	default:
		return err
	}
}
