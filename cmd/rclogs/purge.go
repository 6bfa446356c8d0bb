package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rclogs/pkg/calllog"
	"rclogs/pkg/logger"
	"rclogs/pkg/ringcentral"
	"rclogs/pkg/throttle"
	"rclogs/pkg/ui"
	"rclogs/pkg/ui/tui"
)

var (
	// Purge command flags
	purgeOlderThan int
	purgePerPage   int
	purgeAuditLog  string
	purgeDryRun    bool
	purgeTUI       bool
	purgeNotify    bool
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete recorded calls older than a cutoff",
	Long: `Delete every call-log record older than the cutoff that has a
recording attached, without prompting. Records without recordings are
left in place.

Purges page by offset rather than by cursor: deletions renumber the
remaining pages, which makes navigation links stale. Every deletion is
written to the audit log first.

Use --dry-run to list what would be deleted, and --tui for a
full-screen dashboard on long runs.`,
	Example: `  # Recorded calls older than 30 days (the default cutoff)
  rclogs purge

  # See the candidates without deleting anything
  rclogs purge --older_than 90 --dry-run

  # Long run with a live dashboard and a desktop notification at the end
  rclogs purge --older_than 365 --tui --notify`,
	Args: cobra.NoArgs,
	Run:  runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().IntVar(&purgeOlderThan, "older_than", 30, "delete recorded calls older than this many days")
	purgeCmd.Flags().IntVar(&purgePerPage, "per_page", 250, "records per page (1-1000)")
	purgeCmd.Flags().StringVar(&purgeAuditLog, "audit-log", "", "append deletions to this file instead of the configured one")
	purgeCmd.Flags().BoolVar(&purgeDryRun, "dry-run", false, "list the records that would be deleted and stop")
	purgeCmd.Flags().BoolVar(&purgeTUI, "tui", false, "show a full-screen dashboard while the purge runs")
	purgeCmd.Flags().BoolVar(&purgeNotify, "notify", false, "send a desktop notification when the purge finishes")
}

func runPurge(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if purgeAuditLog != "" {
		flags["audit-log"] = purgeAuditLog
	}
	if purgeNotify {
		flags["notify"] = true
	}
	cfg := loadConfig(flags)
	log := logger.GetLogger()

	if purgeOlderThan < 1 {
		ui.PrintError("Invalid flag", "--older_than must be at least 1 day")
		os.Exit(1)
	}
	if purgePerPage < 1 || purgePerPage > ringcentral.MaxPerPage {
		ui.PrintError("Invalid flag", fmt.Sprintf("--per_page must be between 1 and %d", ringcentral.MaxPerPage))
		os.Exit(1)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -purgeOlderThan)

	client := buildClient(cfg, log)
	exec, limiter := buildExecutor(cfg, log)
	walker := calllog.NewWalker(client, exec, log)

	params := ringcentral.ListParams{
		View:          ringcentral.ViewSimple,
		DateTo:        cutoff,
		PerPage:       purgePerPage,
		RecordingType: "All",
	}

	if purgeDryRun {
		runPurgeDryRun(walker, exec, cfg.Retry.MaxRetries, params)
		return
	}

	audit, err := calllog.NewFileAuditLog(cfg.Output.AuditLog)
	if err != nil {
		ui.PrintError("Cannot open audit log", err.Error())
		os.Exit(1)
	}
	defer audit.Close()

	action := calllog.NewUnattendedAction(client, exec)
	runner := calllog.NewRunner(walker, action, audit, log)
	runner.SetLimiter(limiter)

	var stats calllog.Stats
	if purgeTUI {
		stats, err = runPurgeWithDashboard(runner, exec, params)
	} else {
		sink := ui.NewConsoleProgress(verbose)
		runner.SetProgressSink(sink)
		announceRetriesTo(exec, sink)

		ui.PrintInfo("Purging", fmt.Sprintf("recorded calls older than %s", cutoff.Format("2006-01-02")))
		ui.PrintInfo("Audit log", audit.Path())
		stats, err = runner.RunByOffset(context.Background(), params)
	}

	if cfg.Output.Notifications {
		notifier := ui.NewNotifier()
		if err != nil {
			notifier.SendError("rclogs purge", err.Error())
		} else {
			notifier.SendSuccess("rclogs purge",
				fmt.Sprintf("%d records deleted, %d skipped, %d failed", stats.Deleted, stats.Skipped, stats.Failed))
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			ui.PrintWarning("Purge cancelled")
			printRunSummary(stats)
			os.Exit(1)
		}
		ui.PrintError("Purge failed", err.Error())
		os.Exit(1)
	}

	if stats.Processed == 0 {
		ui.PrintWarning(fmt.Sprintf("No call log records older than %d days", purgeOlderThan))
		return
	}

	fmt.Println()
	printRunSummary(stats)
}

// runPurgeDryRun lists the records a real purge would delete
func runPurgeDryRun(walker *calllog.Walker, exec *throttle.Executor, maxRetries int, params ringcentral.ListParams) {
	announceRetriesToConsole(exec, maxRetries)
	ui.PrintHighlight("[DRY RUN] Nothing will be deleted")
	fmt.Println()

	matched := 0
	err := walker.WalkByOffset(context.Background(), params, func(record ringcentral.CallLogRecord) error {
		if !record.HasRecording() {
			return nil
		}
		matched++
		ui.PrintRecord(record, false)
		return nil
	})
	if err != nil {
		ui.PrintError("Dry run failed", err.Error())
		os.Exit(1)
	}

	fmt.Println()
	ui.PrintHighlight(fmt.Sprintf("[DRY RUN] %d recorded calls older than %d days would be deleted", matched, purgeOlderThan))
}

// runPurgeWithDashboard runs the purge behind the full-screen dashboard.
// The runner goroutine feeds the dashboard through the progress sink;
// quitting the dashboard cancels the run.
func runPurgeWithDashboard(runner *calllog.Runner, exec *throttle.Executor, params ringcentral.ListParams) (calllog.Stats, error) {
	dashboard := tui.New()
	runner.SetProgressSink(dashboard)
	announceRetriesTo(exec, dashboard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type runResult struct {
		stats calllog.Stats
		err   error
	}
	results := make(chan runResult, 1)
	go func() {
		stats, err := runner.RunByOffset(ctx, params)
		results <- runResult{stats, err}
		// A completed run leaves the dashboard up for inspection;
		// a failed one tears it down so the error is visible.
		if err != nil {
			dashboard.Stop()
		}
	}()

	if err := dashboard.Start(); err != nil {
		cancel()
		res := <-results
		if res.err != nil {
			return res.stats, res.err
		}
		return res.stats, fmt.Errorf("dashboard failed: %w", err)
	}

	cancel()
	res := <-results
	return res.stats, res.err
}
