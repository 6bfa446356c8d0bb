package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"rclogs/pkg/config"
	"rclogs/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage rclogs configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (RCLOGS_*)
  - A .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is written to '~/.config/rclogs/config.yaml' unless a
different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	Run:  runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after applying every source:
command line flags, environment variables, the .env file, the
configuration file, and the defaults.

Credentials are not part of the configuration; see 'rclogs auth status'.`,
	Args: cobra.NoArgs,
	Run:  runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Args: cobra.NoArgs,
	Run:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# rclogs configuration file
#
# Every option can also be set with an RCLOGS_ environment variable,
# for example RCLOGS_MAX_RETRIES or RCLOGS_AUDIT_LOG. Command line
# flags override both.

# RingCentral API settings
api:
  # Server URL override (optional)
  # Leave empty to use the server stored with the credentials.
  # Production: https://platform.ringcentral.com
  # Sandbox:    https://platform.devtest.ringcentral.com
  server_url: ""

  # Per-request timeout in seconds
  timeout_seconds: 30

  # Records per page
  # Range: 1-1000
  per_page: 100

# Rate limiting
# The call-log endpoints allow 10 requests per 60 seconds. Lower the
# request count if other tools share the same account.
rate_limit:
  # Requests admitted per window
  requests_per_window: 10

  # Window length in seconds
  window_seconds: 60

# Retry behavior
retry:
  # Maximum retry attempts per request
  max_retries: 3

  # Wait after a 429 without a Retry-After header, in seconds
  rate_limit_wait_seconds: 60

  # First transient-failure backoff in seconds
  backoff_base_seconds: 2

  # Transient-failure backoff ceiling in seconds
  backoff_cap_seconds: 30

# Output settings
output:
  # Audit log recording every deletion
  audit_log: "deleted_call_logs.log"

  # Colored terminal output
  color: true

  # Desktop notification when a purge finishes
  notifications: false

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log format: console, json
  format: "console"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		ui.PrintError("Failed to create configuration directory", err.Error())
		os.Exit(1)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file to match your account")
	fmt.Println("2. Run 'rclogs config validate' to check it")
	fmt.Println("3. Store credentials with 'rclogs auth login'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig(nil)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (RCLOGS_*)")
	fmt.Println("3. .env file")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched default locations)")
	}
	fmt.Println("5. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			"rclogs.yaml",
			"rclogs.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "rclogs", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "rclogs", "config.yml"),
			filepath.Join(os.Getenv("HOME"), ".rclogs.yaml"),
			filepath.Join(os.Getenv("HOME"), ".rclogs.yml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "specify one with the --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Range checks live in the config package; what remains is
	// whether the configured paths are usable
	var pathErrors []string
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			pathErrors = append(pathErrors, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}
	if dir := filepath.Dir(cfg.Output.AuditLog); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			pathErrors = append(pathErrors, fmt.Sprintf("cannot create audit log directory: %v", err))
		}
	}

	if len(pathErrors) > 0 {
		ui.PrintError("Configuration has errors")
		for _, msg := range pathErrors {
			fmt.Printf("  - %s\n", msg)
		}
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Rate limit: %d requests per %s\n", cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window())
	fmt.Printf("  Max retries: %d\n", cfg.Retry.MaxRetries)
	fmt.Printf("  Records per page: %d\n", cfg.API.PerPage)
	fmt.Printf("  Audit log: %s\n", cfg.Output.AuditLog)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
