package ledger

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

// Database keeps the ledger in the shown_alerts table so every API replica
// shares it.
type Database struct {
	db *gorm.DB
}

// NewDatabase creates a table-backed ledger. The table is migrated by db.Init.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) HasBeenShown(ctx context.Context, day calendar.Date, applianceID int64) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&model.ShownAlert{}).
		Where("day = ? AND appliance_id = ?", day.String(), applianceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	return count > 0, nil
}

func (d *Database) MarkShown(ctx context.Context, day calendar.Date, applianceID int64) error {
	row := model.ShownAlert{Day: day.String(), ApplianceID: applianceID, ShownAt: time.Now().UTC()}
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("ledger write: %w", err)
	}
	return nil
}

// Prune deletes entries for days before the given day and returns how many
// rows were removed.
func (d *Database) Prune(ctx context.Context, before calendar.Date) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("day < ?", before.String()).
		Delete(&model.ShownAlert{})
	if res.Error != nil {
		return 0, fmt.Errorf("ledger prune: %w", res.Error)
	}
	return res.RowsAffected, nil
}
