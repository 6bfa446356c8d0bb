package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     config, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with custom config file:
//
//     config, err := config.Load("/path/to/config.yaml", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 3. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "per_page":  250,
//         "audit-log": "purged.log",
//         "log-level": "debug",
//     }
//     config, err := config.Load("", flags)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 4. Programmatic configuration:
//
//     config := config.DefaultConfig()
//     config.RateLimit.RequestsPerWindow = 5
//     config.Retry.MaxRetries = 1
//
//     if err := config.Validate(); err != nil {
//         log.Fatal(err)
//     }
//
// 5. Save configuration to file:
//
//     if err := config.Save(config.DefaultConfigPath()); err != nil {
//         log.Fatal(err)
//     }
//
// 6. Environment variables:
//
//     export RCLOGS_SERVER="https://platform.devtest.ringcentral.com"
//     export RCLOGS_REQUESTS_PER_WINDOW="10"
//     export RCLOGS_WINDOW_SECONDS="60"
//     export RCLOGS_MAX_RETRIES="3"
//     export RCLOGS_AUDIT_LOG="deleted_call_logs.log"
//     export RCLOGS_LOG_LEVEL="debug"
//
// 7. Using configuration in your application:
//
//     // Shared limiter sized from config
//     limiter := ratelimit.NewSlidingWindow(
//         config.RateLimit.RequestsPerWindow,
//         config.RateLimit.Window(),
//     )
//
//     // Retry policy from config
//     policy := &retry.Policy{
//         MaxRetries:    config.Retry.MaxRetries,
//         RateLimitWait: config.Retry.RateLimitWait(),
//         Backoff: &retry.ExponentialBackoff{
//             BaseDelay:  config.Retry.BackoffBase(),
//             MaxDelay:   config.Retry.BackoffCap(),
//             Multiplier: 2.0,
//         },
//     }
