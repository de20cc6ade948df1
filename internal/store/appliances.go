package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/errs"
	"appliance-alerts-backend/internal/model"
)

func (s *gormStore) ListAppliances(ctx context.Context) ([]*model.Appliance, error) {
	var apps []*model.Appliance
	if err := s.db.WithContext(ctx).Order("id").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list appliances: %w", err)
	}
	return apps, nil
}

func (s *gormStore) GetAppliance(ctx context.Context, id int64) (*model.Appliance, error) {
	var a model.Appliance
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, fmt.Errorf("appliance %d: %w", id, translate(err))
	}
	return &a, nil
}

func (s *gormStore) CreateAppliance(ctx context.Context, a *model.Appliance) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create appliance: %w", translate(err))
	}
	return nil
}

func (s *gormStore) DeleteAppliance(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Appliance{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete appliance %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appliance %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (s *gormStore) MutateAppliance(ctx context.Context, id int64, fn func(*model.Appliance) error) (*model.Appliance, error) {
	var a model.Appliance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&a, id).Error; err != nil {
			return fmt.Errorf("appliance %d: %w", id, translate(err))
		}
		if err := fn(&a); err != nil {
			return err
		}
		if err := tx.Save(&a).Error; err != nil {
			return fmt.Errorf("failed to save appliance %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *gormStore) ReleaseElapsedSnoozes(ctx context.Context, today calendar.Date) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Appliance{}).
		Where("alert_status = ? AND snooze_until IS NOT NULL AND snooze_until <= ?", model.AlertSnoozed, today).
		Updates(map[string]any{
			"alert_status": model.AlertActive,
			"snooze_until": nil,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to release elapsed snoozes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
