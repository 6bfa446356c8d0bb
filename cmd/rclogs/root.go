package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rclogs/pkg/auth"
	"rclogs/pkg/calllog"
	"rclogs/pkg/config"
	errs "rclogs/pkg/errors"
	"rclogs/pkg/logger"
	"rclogs/pkg/ratelimit"
	"rclogs/pkg/retry"
	"rclogs/pkg/ringcentral"
	"rclogs/pkg/throttle"
	"rclogs/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFormat  string
	noColor    bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rclogs",
	Short: "Retrieve and delete RingCentral call logs without tripping the rate limit",
	Long: `rclogs retrieves and deletes call-log records through the RingCentral API
while honoring its 10-requests-per-60-seconds rate limit.

Features:
  - Sliding-window request throttling shared by every API call
  - Automatic retry with Retry-After and exponential backoff handling
  - Secure credential storage using the system keychain
  - Targeted deletion with per-record confirmation
  - Unattended purge of recorded calls with an audit trail
  - Resumable fetch with JSON Lines export
  - Live terminal dashboard for long purge runs

Credentials come from 'rclogs auth login' or the RC_CLIENT_ID,
RC_CLIENT_SECRET, RC_JWT_TOKEN, and RC_SERVER environment variables.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.SetColorEnabled(false)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is rclogs.yaml or ~/.config/rclogs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every record outcome instead of a progress line")

	// Version template
	rootCmd.SetVersionTemplate(`rclogs {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects the persistent flags for the config merge
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if logFormat != "console" {
		flags["log-format"] = logFormat
	}
	if noColor {
		flags["no-color"] = true
	}
	return flags
}

// loadConfig layers flags over env, .env, and file settings, then
// initializes the global logger from the result
func loadConfig(flags map[string]interface{}) *config.Config {
	merged := globalFlags()
	for k, v := range flags {
		merged[k] = v
	}

	cfg, err := config.Load(configFile, merged)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		File:    cfg.Logging.File,
		NoColor: !cfg.Output.Color,
	}); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	if !cfg.Output.Color {
		ui.SetColorEnabled(false)
	}

	return cfg
}

// buildClient resolves credentials and constructs the API client.
// A missing credential chain is an authentication failure, so the
// process exits non-zero here.
func buildClient(cfg *config.Config, log logger.Logger) *ringcentral.Client {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	creds, source, err := manager.Resolve()
	if err != nil {
		log.WithError(err).Error("No credentials available")
		ui.PrintError("Authentication failed", err.Error())
		fmt.Println("\nStore credentials securely with:")
		fmt.Println("  rclogs auth login")
		os.Exit(1)
	}

	serverURL := creds.ServerURL
	if cfg.API.ServerURL != "" {
		serverURL = cfg.API.ServerURL
	}

	log.WithFields(map[string]interface{}{
		"source": source,
		"server": serverURL,
	}).Info("Credentials resolved")

	tokens := ringcentral.NewJWTTokenSource(ringcentral.JWTConfig{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		JWT:          creds.JWTToken,
		ServerURL:    serverURL,
	}, log)

	return ringcentral.NewClient(serverURL, tokens, cfg.API.Timeout(), log)
}

// buildExecutor assembles the shared limiter and throttled executor
// every API call of the invocation must go through
func buildExecutor(cfg *config.Config, log logger.Logger) (*throttle.Executor, *ratelimit.SlidingWindow) {
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window())

	policy := &retry.Policy{
		MaxRetries:    cfg.Retry.MaxRetries,
		RateLimitWait: cfg.Retry.RateLimitWait(),
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  cfg.Retry.BackoffBase(),
			MaxDelay:   cfg.Retry.BackoffCap(),
			Multiplier: 2.0,
		},
	}

	return throttle.New(limiter, policy, log), limiter
}

// retryReason names a retry wait for progress displays
func retryReason(err error) string {
	if errs.IsRateLimit(err) {
		return "rate limited by provider"
	}
	return "transient failure"
}

// announceRetriesTo routes executor retry waits to the given sink
func announceRetriesTo(exec *throttle.Executor, sink calllog.ProgressSink) {
	exec.OnRetry = func(attempt int, wait time.Duration, err error) {
		sink.Waiting(retryReason(err), wait)
	}
}

// announceRetriesToConsole prints executor retry waits directly, for
// commands that run without a progress sink
func announceRetriesToConsole(exec *throttle.Executor, maxRetries int) {
	exec.OnRetry = func(attempt int, wait time.Duration, err error) {
		ui.PrintWarning(fmt.Sprintf("%s, waiting %s (attempt %d/%d)",
			retryReason(err), wait.Round(time.Second), attempt, maxRetries))
	}
}

// resolveDateRange parses the optional --date_from and --date_to
// values and fills the defaults: dateTo now, dateFrom now minus the
// command's default span.
func resolveDateRange(fromFlag, toFlag string, defaultSpan time.Duration) (time.Time, time.Time, error) {
	now := time.Now().UTC()

	dateTo := now
	if toFlag != "" {
		parsed, err := parseDate(toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date_to: %w", err)
		}
		dateTo = parsed
	}

	dateFrom := dateTo.Add(-defaultSpan)
	if fromFlag != "" {
		parsed, err := parseDate(fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date_from: %w", err)
		}
		dateFrom = parsed
	}

	if !dateFrom.Before(dateTo) {
		return time.Time{}, time.Time{}, fmt.Errorf("--date_from %s is not before --date_to %s",
			dateFrom.Format(time.RFC3339), dateTo.Format(time.RFC3339))
	}

	return dateFrom, dateTo, nil
}

// parseDate accepts ISO-8601 timestamps and bare dates
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	layouts := []string{
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 timestamp (example: 2026-01-31T00:00:00Z)", value)
}

// printRunSummary reports the outcome counts of a deletion run
func printRunSummary(stats calllog.Stats) {
	ui.PrintSuccess(fmt.Sprintf("Processed %d records across %d pages", stats.Processed, stats.Pages))
	ui.PrintInfo("Deleted", fmt.Sprintf("%d", stats.Deleted))
	ui.PrintInfo("Skipped", fmt.Sprintf("%d", stats.Skipped))
	if stats.Failed > 0 {
		ui.PrintWarning(fmt.Sprintf("%d deletions failed; see the log for details", stats.Failed))
	}
}
