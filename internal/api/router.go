package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"appliance-alerts-backend/config"
	"appliance-alerts-backend/internal/mw"
	"appliance-alerts-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config) (*gin.Engine, error) {
	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}
	return newRouter(NewHandler(s, loc, cfg.Scheduler.UpcomingHorizonDays), cfg.Server), nil
}

func newRouter(handler *Handler, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()
	r.Use(mw.RequestID())

	r.GET("/healthz", handler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Idle clients are forgotten after ten minutes.
	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, 10*time.Minute)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(limiter))

	// Alert views and notices depend on the current day and on sweep writes,
	// so they are never served from the response cache.
	live := api.Group("")
	{
		live.GET("/alerts/due", handler.DueAlerts)
		live.GET("/alerts/upcoming", handler.UpcomingAlerts)
		live.GET("/alerts/summary", handler.AlertSummary)
		live.GET("/alerts/activity", handler.AlertActivity)

		live.GET("/notices", handler.ListNotices)
		live.POST("/notices/:id/read", handler.MarkNoticeRead)
	}

	cached := api.Group("")
	if cfg.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		cached.Use(mw.Cache(cache.New(ttl, 2*ttl), ttl))
	}
	{
		cached.GET("/appliances", handler.ListAppliances)
		cached.POST("/appliances", handler.CreateAppliance)
		cached.GET("/appliances/:id", handler.GetAppliance)
		cached.PATCH("/appliances/:id", handler.UpdateAppliance)
		cached.DELETE("/appliances/:id", handler.DeleteAppliance)
		cached.POST("/appliances/:id/alert/:action", handler.AlertAction)

		cached.GET("/users", handler.ListUsers)
		cached.POST("/users", handler.CreateUser)
		cached.GET("/users/:id", handler.GetUser)
		cached.PATCH("/users/:id", handler.UpdateUser)
		cached.DELETE("/users/:id", handler.DeleteUser)
		cached.POST("/auth/login", handler.Login)
	}

	return r
}
