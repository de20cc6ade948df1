package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
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
	"appliance-alerts-backend/internal/db"
	"appliance-alerts-backend/internal/model"
	"appliance-alerts-backend/internal/store"
)

type harness struct {
	store  store.Store
	apiURL string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	s := store.NewGormStore(gdb)

	cfg := config.Default()
	cfg.Server.CacheTTLSeconds = 0
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	router, err := api.NewRouter(s, cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &harness{
		store:  s,
		apiURL: srv.URL + "/api",
		config: filepath.Join(t.TempDir(), "absent.yaml"),
	}
}

func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", h.config, "--api", h.apiURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) seed(t *testing.T, a *model.Appliance) int64 {
	t.Helper()
	a.Brand, a.Model = "Bosch", "X1"
	require.NoError(t, h.store.CreateAppliance(context.Background(), a))
	return a.ID
}

func today() calendar.Date {
	return calendar.Today(time.Local)
}

func TestAddListDelete(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("add", "--name", "Dishwasher", "--brand", "Bosch", "--model", "SMS", "--category", "Kitchen")
	require.NoError(t, err)
	assert.Contains(t, out, "Created appliance 1")

	out, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dishwasher")
	assert.Contains(t, out, "NO_ALERT")

	_, err = h.run("delete", "1")
	require.NoError(t, err)

	out, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "No appliances.")
}

func TestAddRejectsInvalidWithoutCallingServer(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "--name", "Oven")
	require.Error(t, err)
	assert.Equal(t, "Brand is required. Model is required.", err.Error())

	apps, err := h.store.ListAppliances(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestSnoozeAndDue(t *testing.T) {
	h := newHarness(t)
	id := h.seed(t, &model.Appliance{Name: "Washer", AlertDate: today().AddDays(-2).Ptr()})

	out, err := h.run("due")
	require.NoError(t, err)
	assert.Contains(t, out, "Washer")
	assert.Contains(t, out, "2 days overdue")

	out, err = h.run("snooze", fmt.Sprint(id), "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "SNOOZED")
	assert.Contains(t, out, today().AddDays(3).String())

	out, err = h.run("due")
	require.NoError(t, err)
	assert.Contains(t, out, "No appliances.")

	out, err = h.run("reactivate", fmt.Sprint(id))
	require.NoError(t, err)
	assert.Contains(t, out, "OVERDUE")
}

func TestCompleteAndUpcoming(t *testing.T) {
	h := newHarness(t)
	id := h.seed(t, &model.Appliance{
		Name:                  "Filter",
		AlertDate:             today().Ptr(),
		RecurringInterval:     model.RecurCustom,
		RecurringIntervalDays: func() *int { n := 10; return &n }(),
	})

	out, err := h.run("complete", fmt.Sprint(id))
	require.NoError(t, err)
	assert.Contains(t, out, today().AddDays(10).String())
	assert.Contains(t, out, "SCHEDULED")

	out, err = h.run("upcoming", "--days", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "No appliances.")

	out, err = h.run("upcoming", "--days", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Filter")
	assert.Contains(t, out, "WARNING")
}

func TestEditClearsField(t *testing.T) {
	h := newHarness(t)
	id := h.seed(t, &model.Appliance{Name: "Fridge", Notes: "old"})

	out, err := h.run("edit", fmt.Sprint(id), "--notes", "", "--category", "Kitchen")
	require.NoError(t, err)
	assert.Contains(t, out, "Kitchen")

	got, err := h.store.GetAppliance(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
	assert.Equal(t, "Kitchen", got.Category)
}

func TestCommandErrors(t *testing.T) {
	h := newHarness(t)
	noAlert := h.seed(t, &model.Appliance{Name: "Toaster"})

	testCases := []struct {
		name        string
		args        []string
		expectedErr string
	}{
		{name: "Invalid id", args: []string{"show", "abc"}, expectedErr: `invalid appliance id "abc"`},
		{name: "Unknown appliance", args: []string{"show", "99"}, expectedErr: "appliance 99: not found"},
		{name: "Snooze needs a target", args: []string{"snooze", "1"}},
		{name: "Edit without fields", args: []string{"edit", "1"}, expectedErr: "nothing to change"},
		{name: "Cancel without alert date", args: []string{"cancel", fmt.Sprint(noAlert)}, expectedErr: "cancel: appliance has no alert date"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.run(tc.args...)
			require.Error(t, err)
			if tc.expectedErr != "" {
				assert.Equal(t, tc.expectedErr, err.Error())
			}
		})
	}
}
