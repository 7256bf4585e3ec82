package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsignal/screener/internal/scheduler"
	"github.com/finsignal/screener/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run or inspect the screening scheduler",
	Long: `Runs the scheduler daemon with the daily screening job.

Subcommands:
  start   - start the scheduler daemon
  run     - run a registered job immediately

Example:
  go run ./cmd/screener scheduler start
  go run ./cmd/screener scheduler run daily_screening`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler and registers the screening job on the
configured cron schedule (SCREENING_SCHEDULE).

Stop with Ctrl+C.`,
		RunE: runSchedulerStart,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a registered job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func buildScheduler(deps *appDeps) (*scheduler.Scheduler, error) {
	sched := scheduler.New(deps.Logger)
	job := jobs.NewScreeningJob(deps.Orchestrator, deps.Alerts, deps.Exporter, deps.Config, deps.Logger)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("register screening job: %w", err)
	}
	return sched, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Screening Scheduler ===")

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	sched, err := buildScheduler(deps)
	if err != nil {
		return err
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Printf("\nSchedule: %s\n", deps.Config.Screening.Schedule)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	sched, err := buildScheduler(deps)
	if err != nil {
		return err
	}

	fmt.Printf("🚀 Running job %s\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	// RunJob is async; poll until the single execution lands in history.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return nil
		case <-ticker.C:
		}

		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			return err
		}
		if len(history.Results) > 0 {
			last := history.Results[len(history.Results)-1]
			if last.Success {
				fmt.Printf("✅ Job %s completed in %.2fs\n", jobName, last.Duration.Seconds())
			} else {
				fmt.Printf("❌ Job %s failed: %s\n", jobName, last.Error)
			}
			return nil
		}
	}
}
