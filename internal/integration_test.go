package internal

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"appliance-alerts-backend/config"
	"appliance-alerts-backend/internal/api"
	"appliance-alerts-backend/internal/calendar"
	"appliance-alerts-backend/internal/client"
	"appliance-alerts-backend/internal/db"
	"appliance-alerts-backend/internal/ledger"
	"appliance-alerts-backend/internal/model"
	"appliance-alerts-backend/internal/notification"
	"appliance-alerts-backend/internal/scheduler"
	"appliance-alerts-backend/internal/store"
)

// syncDispatcher processes each job inline so a sweep is fully observable
// when SweepOnce returns.
type syncDispatcher struct {
	pool *notification.WorkerPool
}

func (d syncDispatcher) Dispatch(ctx context.Context, job notification.Job) error {
	d.pool.Process(ctx, job)
	return nil
}

// TestAlertLifecycle drives appliances through the REST client and checks
// that sweeps surface each due alert once per day.
func TestAlertLifecycle(t *testing.T) {
	// --- Test Setup ---
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	cfg := config.Default()
	cfg.Server.CacheTTLSeconds = 0
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Ledger.Backend = "database"

	appStore := store.NewGormStore(testDB)
	router, err := api.NewRouter(appStore, cfg)
	require.NoError(t, err)
	server := httptest.NewServer(router)
	defer server.Close()

	repo := client.NewApplianceRepository(client.New(server.URL+"/api", 5*time.Second))

	shown, closer, err := ledger.New(cfg.Ledger, testDB, nil)
	require.NoError(t, err)
	defer closer.Close()

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, notification.NewInbox(appStore), shown)
	sweeper, err := scheduler.NewService(cfg.Scheduler, cfg.Ledger.Retention, appStore, shown, syncDispatcher{pool})
	require.NoError(t, err)

	today := sweeper.Today()

	// --- Step 1: create appliances through the API ---
	washer, err := repo.Create(ctx, &model.Appliance{
		Name: "Washer", Brand: "Bosch", Model: "W1", AlertDate: today.AddDays(-1).Ptr(),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.Appliance{
		Name: "Fridge", Brand: "LG", Model: "F2", AlertDate: today.AddDays(5).Ptr(),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &model.Appliance{Name: "Oven", Brand: "Miele", Model: "O3"})
	require.NoError(t, err)

	// --- Step 2: the first sweep raises one notice ---
	res, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Due)
	assert.Equal(t, 1, res.Dispatched)

	notices, err := appStore.ListNotices(ctx, &today)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, washer.ID, notices[0].ApplianceID)
	assert.Equal(t, "Maintenance overdue", notices[0].Title)
	assert.Equal(t, "Washer (Bosch W1): 1 day overdue", notices[0].Message)

	// --- Step 3: a second sweep on the same day stays quiet ---
	res, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Due)
	assert.Equal(t, 0, res.Dispatched)

	// --- Step 4: snoozing removes the alert from the due set ---
	snoozed, err := repo.Snooze(ctx, washer.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.AlertSnoozed, snoozed.AlertStatus)

	due, err := repo.Due(ctx)
	require.NoError(t, err)
	assert.Empty(t, due)

	res, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Due)

	// --- Step 5: an elapsed snooze is released by the sweep ---
	_, err = appStore.MutateAppliance(ctx, washer.ID, func(a *model.Appliance) error {
		a.SnoozeUntil = today.Ptr()
		return nil
	})
	require.NoError(t, err)

	res, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Released)
	assert.Equal(t, 1, res.Due)
	assert.Equal(t, 0, res.Dispatched)

	released, err := repo.Get(ctx, washer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AlertActive, released.AlertStatus)
	assert.Nil(t, released.SnoozeUntil)

	// --- Step 6: completing a one-off alert cancels it ---
	completed, err := repo.Complete(ctx, washer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AlertCancelled, completed.AlertStatus)

	upcoming, err := repo.Upcoming(ctx, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Fridge", upcoming[0].Name)

	notices, err = appStore.ListNotices(ctx, (*calendar.Date)(nil))
	require.NoError(t, err)
	assert.Len(t, notices, 1)
}
