package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/model"
)

func (s *gormStore) CreateNotice(ctx context.Context, n *model.Notice) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notice for appliance %d: %w", n.ApplianceID, err)
	}
	return nil
}

// ListNotices returns notices newest first, optionally restricted to one day.
func (s *gormStore) ListNotices(ctx context.Context, day *calendar.Date) ([]*model.Notice, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if day != nil {
		q = q.Where("day = ?", *day)
	}
	var notices []*model.Notice
	if err := q.Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	return notices, nil
}

// MarkNoticeRead stamps ReadAt once; later calls keep the first timestamp.
func (s *gormStore) MarkNoticeRead(ctx context.Context, id int64, at time.Time) (*model.Notice, error) {
	var n model.Notice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&n, id).Error; err != nil {
			return fmt.Errorf("notice %d: %w", id, translate(err))
		}
		if n.ReadAt != nil {
			return nil
		}
		n.ReadAt = &at
		return tx.Model(&n).Update("read_at", at).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}
