// Package ringcentral provides a client for the RingCentral call-log
// REST API.
//
// This package includes:
//   - An HTTP client for listing and deleting call-log records
//   - A JWT token source that caches and refreshes access tokens
//   - Type-safe models for call-log pages, records, and navigation
//   - Helper functions for constructing API endpoints
//
// Every failure is classified before it is returned, so callers can
// route it through the shared retry policy. The client deliberately
// performs single requests: rate limiting and retries live in the
// executor that drives it.
//
// Example usage:
//
//	tokens := ringcentral.NewJWTTokenSource(ringcentral.JWTConfig{
//	    ClientID:     clientID,
//	    ClientSecret: clientSecret,
//	    JWT:          jwt,
//	    ServerURL:    ringcentral.ProductionServer,
//	}, log)
//
//	client := ringcentral.NewClient(ringcentral.ProductionServer, tokens, 30*time.Second, log)
//
//	page, err := client.ListCallLogs(ctx, ringcentral.ListParams{
//	    View:     ringcentral.ViewDetailed,
//	    DateFrom: time.Now().AddDate(0, 0, -30),
//	})
//	if err != nil {
//	    if errs.IsRateLimit(err) {
//	        // wait and try again
//	    }
//	}
package ringcentral
