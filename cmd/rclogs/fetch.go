package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rclogs/pkg/calllog"
	"rclogs/pkg/checkpoint"
	"rclogs/pkg/export"
	"rclogs/pkg/logger"
	"rclogs/pkg/ringcentral"
	"rclogs/pkg/ui"
)

var (
	// Fetch command flags
	fetchDateFrom      string
	fetchDateTo        string
	fetchPhoneNumber   string
	fetchView          string
	fetchPerPage       int
	fetchRecordingType string
	fetchOutput        string
	fetchResume        bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List call logs for a date range",
	Long: `List call-log records page by page, printing each record.

Every page request goes through the shared rate limiter, so large
accounts fetch slowly but never trip the provider's 429 responses.
With --output the records are also appended to a JSON Lines file;
re-running against the same file never duplicates a record.

Interrupted fetches can be continued with --resume as long as the
query parameters are repeated exactly.`,
	Example: `  # Last 30 days (the default window)
  rclogs fetch

  # Specific range, records with their call legs
  rclogs fetch --date_from 2026-01-01T00:00:00Z --date_to 2026-01-31T23:59:59Z --view Detailed

  # Filter by phone number and export to a file
  rclogs fetch --phone_number +15551234567 --output calls.jsonl

  # Continue an interrupted export
  rclogs fetch --output calls.jsonl --resume`,
	Args: cobra.NoArgs,
	Run:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchDateFrom, "date_from", "", "start of the date range (ISO 8601; default 30 days ago)")
	fetchCmd.Flags().StringVar(&fetchDateTo, "date_to", "", "end of the date range (ISO 8601; default now)")
	fetchCmd.Flags().StringVar(&fetchPhoneNumber, "phone_number", "", "only records involving this phone number")
	fetchCmd.Flags().StringVar(&fetchView, "view", ringcentral.ViewDetailed, "record detail level (Simple or Detailed)")
	fetchCmd.Flags().IntVar(&fetchPerPage, "per_page", ringcentral.DefaultPerPage, "records per page (1-1000)")
	fetchCmd.Flags().StringVar(&fetchRecordingType, "recording_type", "All", "recording filter (All, Automatic, OnDemand; empty for every call)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "append records to this JSON Lines file")
	fetchCmd.Flags().BoolVar(&fetchResume, "resume", false, "continue from the last checkpoint of an identical query")
}

func runFetch(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if fetchPerPage != ringcentral.DefaultPerPage {
		flags["per_page"] = fetchPerPage
	}
	cfg := loadConfig(flags)
	log := logger.GetLogger()

	view, err := canonicalView(fetchView)
	if err != nil {
		ui.PrintError("Invalid flag", err.Error())
		os.Exit(1)
	}

	dateFrom, dateTo, err := resolveDateRange(fetchDateFrom, fetchDateTo, 30*24*time.Hour)
	if err != nil {
		ui.PrintError("Invalid date range", err.Error())
		os.Exit(1)
	}

	client := buildClient(cfg, log)
	exec, _ := buildExecutor(cfg, log)
	announceRetriesToConsole(exec, cfg.Retry.MaxRetries)
	walker := calllog.NewWalker(client, exec, log)

	var writer *export.Writer
	if fetchOutput != "" {
		writer, err = export.NewWriter(fetchOutput)
		if err != nil {
			ui.PrintError("Cannot open export file", err.Error())
			os.Exit(1)
		}
		defer writer.Close()
	}

	// Checkpoint storage failures degrade the fetch to non-resumable
	// instead of blocking it
	mgr, err := checkpoint.NewManager("fetch")
	if err != nil {
		log.WithError(err).Warn("Checkpoint storage unavailable; this fetch cannot be resumed")
		mgr = nil
	}

	fingerprint := checkpoint.Fingerprint(
		client.ServerURL(),
		fetchDateFrom,
		fetchDateTo,
		fetchPhoneNumber,
		view,
		strconv.Itoa(cfg.API.PerPage),
		fetchOutput,
	)

	var cp *checkpoint.Checkpoint
	startURI := ""
	baseCount := 0

	if fetchResume {
		if mgr == nil {
			ui.PrintError("Cannot resume", "checkpoint storage is unavailable")
			os.Exit(1)
		}
		cp, err = mgr.LoadMatching(fingerprint)
		if err != nil {
			ui.PrintError("Cannot resume", err.Error())
			os.Exit(1)
		}
		if cp == nil {
			ui.PrintWarning("No checkpoint found; starting from the beginning")
		} else if cp.NextPageURI != "" {
			startURI = cp.NextPageURI
			baseCount = cp.Exported
			ui.PrintInfo("Resuming", fmt.Sprintf("from page %d (%d records already fetched)", cp.PagesFetched+1, cp.Exported))
		}
	}

	if cp == nil && mgr != nil {
		if mgr.Exists() && !fetchResume {
			ui.PrintWarning("Ignoring an existing checkpoint (pass --resume to continue it)")
		}
		cp, err = mgr.Create(fingerprint)
		if err != nil {
			log.WithError(err).Warn("Could not create checkpoint; this fetch cannot be resumed")
			cp = nil
		}
	}

	params := ringcentral.ListParams{
		View:          view,
		PhoneNumber:   fetchPhoneNumber,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		PerPage:       cfg.API.PerPage,
		RecordingType: fetchRecordingType,
	}

	detailed := view == ringcentral.ViewDetailed
	fetched := 0
	exported := 0

	progressCount := func() int {
		if writer != nil {
			return writer.Count()
		}
		return baseCount + fetched
	}

	// The checkpoint advances one page behind the walk: a page's
	// cursor is saved only once the following page arrives, which
	// proves every record of the page was handed to the consumer.
	if cp != nil {
		pendingCursor := ""
		pagesSeen := 0
		walker.OnPage = func(pageNum, recordCount int, nextCursor string) {
			if pagesSeen > 0 {
				if err := mgr.UpdateProgress(cp, pendingCursor, progressCount()); err != nil {
					log.WithError(err).Warn("Checkpoint write failed")
				}
			}
			pagesSeen++
			pendingCursor = nextCursor
		}
	}

	fn := func(record ringcentral.CallLogRecord) error {
		fetched++
		ui.PrintRecord(record, detailed)
		if writer != nil {
			added, err := writer.Write(record)
			if err != nil {
				return fmt.Errorf("export write failed: %w", err)
			}
			if added {
				exported++
			}
		}
		return nil
	}

	ctx := context.Background()
	if startURI != "" {
		err = walker.WalkFrom(ctx, startURI, fn)
	} else {
		err = walker.Walk(ctx, params, fn)
	}
	if err != nil {
		ui.PrintError("Fetch failed", err.Error())
		if cp != nil {
			fmt.Println("Run the same command with --resume to continue from the last completed page.")
		}
		os.Exit(1)
	}

	if mgr != nil && cp != nil {
		if err := mgr.Delete(); err != nil {
			log.WithError(err).Warn("Could not remove the finished checkpoint")
		}
	}

	if fetched == 0 && startURI == "" {
		ui.PrintWarning("No call log records found for the given filters")
		return
	}

	fmt.Println()
	ui.PrintSuccess(fmt.Sprintf("Fetched %d call log records", fetched))
	if writer != nil {
		ui.PrintInfo("Exported", fmt.Sprintf("%d new records to %s", exported, writer.Path()))
	}
}

// canonicalView normalizes the --view flag
func canonicalView(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "simple":
		return ringcentral.ViewSimple, nil
	case "detailed":
		return ringcentral.ViewDetailed, nil
	}
	return "", fmt.Errorf("invalid --view %q (use Simple or Detailed)", value)
}
