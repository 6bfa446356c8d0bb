package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rclogs/pkg/calllog"
	"rclogs/pkg/logger"
	"rclogs/pkg/ringcentral"
	"rclogs/pkg/ui"
)

var (
	// Delete command flags
	deletePhoneNumber string
	deleteDateFrom    string
	deleteDateTo      string
	deletePerPage     int
	deleteAuditLog    string
	deleteYes         bool
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete call logs involving a phone number",
	Long: `Delete call-log records that involve the given phone number,
asking for confirmation record by record.

Both the page requests and the deletions share one rate limiter, so
the run stays inside the provider's request window no matter how many
records match. Every deletion is appended to the audit log before the
request is sent; a record that cannot be audited is never deleted.

Pass --yes to delete every matching record without prompting.`,
	Example: `  # Interactive, last 24 hours (the default window)
  rclogs delete --phone_number +15551234567

  # A wider range, no prompts
  rclogs delete --phone_number +15551234567 --date_from 2026-01-01T00:00:00Z --yes

  # Keep the audit trail somewhere specific
  rclogs delete --phone_number +15551234567 --audit-log /var/log/rclogs/deletions.log`,
	Args: cobra.NoArgs,
	Run:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deletePhoneNumber, "phone_number", "", "phone number whose call logs should be deleted (required)")
	deleteCmd.Flags().StringVar(&deleteDateFrom, "date_from", "", "start of the date range (ISO 8601; default 24 hours ago)")
	deleteCmd.Flags().StringVar(&deleteDateTo, "date_to", "", "end of the date range (ISO 8601; default now)")
	deleteCmd.Flags().IntVar(&deletePerPage, "per_page", ringcentral.DefaultPerPage, "records per page (1-1000)")
	deleteCmd.Flags().StringVar(&deleteAuditLog, "audit-log", "", "append deletions to this file instead of the configured one")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking for confirmation")

	deleteCmd.MarkFlagRequired("phone_number")
}

func runDelete(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if deletePerPage != ringcentral.DefaultPerPage {
		flags["per_page"] = deletePerPage
	}
	if deleteAuditLog != "" {
		flags["audit-log"] = deleteAuditLog
	}
	cfg := loadConfig(flags)
	log := logger.GetLogger()

	if !ringcentral.IsValidPhoneNumber(deletePhoneNumber) {
		ui.PrintError("Invalid flag", fmt.Sprintf("%q does not look like a phone number", deletePhoneNumber))
		os.Exit(1)
	}
	phone := ringcentral.NormalizePhoneNumber(deletePhoneNumber)

	dateFrom, dateTo, err := resolveDateRange(deleteDateFrom, deleteDateTo, 24*time.Hour)
	if err != nil {
		ui.PrintError("Invalid date range", err.Error())
		os.Exit(1)
	}

	client := buildClient(cfg, log)
	exec, limiter := buildExecutor(cfg, log)
	walker := calllog.NewWalker(client, exec, log)

	audit, err := calllog.NewFileAuditLog(cfg.Output.AuditLog)
	if err != nil {
		ui.PrintError("Cannot open audit log", err.Error())
		os.Exit(1)
	}
	defer audit.Close()

	var confirmer calllog.Confirmer
	if deleteYes {
		confirmer = calllog.ScriptedConfirmer(true)
	} else {
		confirmer = ui.NewConsoleConfirmer(nil)
	}
	action := calllog.NewInteractiveAction(client, exec, confirmer)
	runner := calllog.NewRunner(walker, action, audit, log)

	// Progress lines and confirmation prompts fight over the same
	// terminal, so the sink is only attached for unattended runs
	if deleteYes {
		sink := ui.NewConsoleProgress(verbose)
		runner.SetProgressSink(sink)
		runner.SetLimiter(limiter)
		announceRetriesTo(exec, sink)
	} else {
		announceRetriesToConsole(exec, cfg.Retry.MaxRetries)
	}

	params := ringcentral.ListParams{
		View:          ringcentral.ViewSimple,
		PhoneNumber:   phone,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		PerPage:       cfg.API.PerPage,
		RecordingType: "All",
	}

	ui.PrintInfo("Scanning", fmt.Sprintf("call logs involving %s between %s and %s",
		phone, dateFrom.Format(time.RFC3339), dateTo.Format(time.RFC3339)))
	ui.PrintInfo("Audit log", audit.Path())

	stats, err := runner.Run(context.Background(), params)
	if err != nil {
		ui.PrintError("Deletion run failed", err.Error())
		os.Exit(1)
	}

	if stats.Processed == 0 {
		ui.PrintWarning("No call log records found for the given filters")
		return
	}

	fmt.Println()
	printRunSummary(stats)
}
