package ledger

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"appliance-alerts-backend/internal/calendar"
)

// Memory keeps the ledger in process memory. Entries expire after the
// retention window, which must exceed one day.
type Memory struct {
	entries   *cache.Cache
	retention time.Duration
}

// NewMemory creates an in-memory ledger.
func NewMemory(retention time.Duration) *Memory {
	return &Memory{
		entries:   cache.New(retention, retention/2),
		retention: retention,
	}
}

func (m *Memory) HasBeenShown(_ context.Context, day calendar.Date, applianceID int64) (bool, error) {
	_, found := m.entries.Get(Key(day, applianceID))
	return found, nil
}

// MarkShown records the pair. Marking an already shown pair is a no-op.
func (m *Memory) MarkShown(_ context.Context, day calendar.Date, applianceID int64) error {
	// Add fails when the key exists, which is the idempotent case.
	_ = m.entries.Add(Key(day, applianceID), time.Now(), m.retention)
	return nil
}
