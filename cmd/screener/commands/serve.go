package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsignal/screener/internal/api"
	"github.com/finsignal/screener/internal/api/handlers"
	"github.com/finsignal/screener/internal/scheduler"
	"github.com/finsignal/screener/internal/scheduler/jobs"
	redisclient "github.com/finsignal/screener/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the REST API server, optionally with the scheduler.

Endpoints:
  GET  /health              - Health check
  GET  /api/opportunities   - Screening results (cached)
  POST /api/screen          - Trigger a fresh screening pass
  GET  /api/runs            - Recent screening run records
  POST /api/backtest        - Run a backtest simulation
  GET  /api/status          - Database, cache and job status

Example:
  go run ./cmd/screener serve
  go run ./cmd/screener serve --port 8090 --with-scheduler`,
	RunE: runServe,
}

var (
	servePort          string
	serveWithScheduler bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default from PORT)")
	serveCmd.Flags().BoolVar(&serveWithScheduler, "with-scheduler", false, "also run the daily screening scheduler")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Screener API Server ===")

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	if servePort != "" {
		deps.Config.Port = servePort
	}

	var sched *scheduler.Scheduler
	if serveWithScheduler {
		sched = scheduler.New(deps.Logger)
		job := jobs.NewScreeningJob(deps.Orchestrator, deps.Alerts, deps.Exporter, deps.Config, deps.Logger)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register screening job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Shared limiter only when Redis is on; handlers fall back to the
	// in-process token bucket otherwise.
	var limiter *redisclient.RateLimiter
	if deps.Redis.Enabled() {
		limiter = redisclient.NewRateLimiter(deps.Redis, "screener")
	}

	screeningHandler := handlers.NewScreeningHandler(deps.Orchestrator, deps.Runs, deps.Cache, deps.Logger)
	backtestHandler := handlers.NewBacktestHandler(deps.Simulator, deps.Logger)
	statusHandler := handlers.NewStatusHandler(deps.DB, deps.Redis, sched, deps.Logger)

	router := api.NewRouter(screeningHandler, backtestHandler, statusHandler, limiter, deps.Logger)
	server := api.New(deps.Config, deps.Logger, router)

	go func() {
		if err := server.Start(); err != nil {
			deps.Logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", deps.Config.Port)
	if serveWithScheduler {
		fmt.Println("⏰ Scheduler running with jobs:")
		for _, name := range sched.GetAllJobs() {
			fmt.Printf("  - %s\n", name)
		}
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
