package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drummonds/posadmin/lazy"
	"github.com/robfig/cron/v3"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// prefetchTimeout bounds how long startup waits on page modules
const prefetchTimeout = 30 * time.Second

// ModuleHealth counts page modules by resolution state
type ModuleHealth struct {
	Resolved int               `json:"resolved"`
	Pending  int               `json:"pending"`
	Failed   int               `json:"failed"`
	Failures map[string]string `json:"failures,omitempty"`
}

// StartupChecks validates the route table before the server accepts traffic
func (serverHandler *ServerHandler) StartupChecks() error {
	if err := serverHandler.Router.Validate(); err != nil {
		Logger.Error("Route table is invalid", "error", err)
		return fmt.Errorf("route table: %w", err)
	}
	Logger.Info("Route table validated", "routes", len(serverHandler.Router.Bindings()))
	return nil
}

// InitializeSchedules starts the prefetch and the periodic module health report
func (serverHandler *ServerHandler) InitializeSchedules() *cron.Cron {
	if serverHandler.ServerConfig.Prefetch {
		Logger.Info("Prefetching page modules at startup")
		go serverHandler.prefetchJobFunc()
	}
	interval := serverHandler.ServerConfig.HealthInterval
	if interval <= 0 {
		Logger.Info("Module health report disabled")
		return nil
	}

	c := cron.New()
	var healthJob cron.Job
	healthJob = cron.FuncJob(func() { serverHandler.healthJobFunc() })
	healthJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(healthJob) //ensure we don't kick off another if old one is still running
	if _, err := c.AddJob(fmt.Sprintf("@every %dm", interval), healthJob); err != nil {
		Logger.Error("Unable to schedule module health report", "error", err)
		return nil
	}
	Logger.Info("Adding module health scheduler", "interval_minutes", interval)
	c.Start()
	return c
}

func (serverHandler *ServerHandler) prefetchJobFunc() {
	// Add panic recovery to prevent entire application crash
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in prefetch job", "panic", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
	defer cancel()
	start := time.Now()
	if err := serverHandler.Router.Prefetch(ctx); err != nil {
		Logger.Error("Some page modules failed to load", "error", err)
		return
	}
	Logger.Info("Page modules prefetched", "modules", len(serverHandler.Router.Handles()), "elapsed", time.Since(start))
}

func (serverHandler *ServerHandler) healthJobFunc() ModuleHealth {
	summary := serverHandler.HealthSummary()
	for label, msg := range summary.Failures {
		Logger.Error("Page module unavailable", "module", label, "error", msg)
	}
	Logger.Info("Module health", "resolved", summary.Resolved, "pending", summary.Pending, "failed", summary.Failed)
	return summary
}

// HealthSummary counts page handles by state
func (serverHandler *ServerHandler) HealthSummary() ModuleHealth {
	var summary ModuleHealth
	for _, h := range serverHandler.Router.Handles() {
		switch h.State() {
		case lazy.Resolved:
			summary.Resolved++
		case lazy.Pending:
			summary.Pending++
		case lazy.Failed:
			summary.Failed++
			if summary.Failures == nil {
				summary.Failures = map[string]string{}
			}
			summary.Failures[h.Label()] = h.Err().Error()
		}
	}
	return summary
}
