package integration

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rclogs/pkg/calllog"
	"rclogs/pkg/logger"
	"rclogs/pkg/ratelimit"
	"rclogs/pkg/retry"
	"rclogs/pkg/ringcentral"
	"rclogs/pkg/throttle"
)

// TestHelper wires the pipeline pieces to a mock provider with waits
// measured in milliseconds so full-stack tests stay fast
type TestHelper struct {
	t    *testing.T
	Mock *MockRingCentralServer
}

// NewTestHelper starts a mock provider and registers its shutdown
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	mock := NewMockRingCentralServer()
	t.Cleanup(mock.Close)

	return &TestHelper{t: t, Mock: mock}
}

// Client returns an API client carrying the mock's static access
// token, bypassing the exchange
func (h *TestHelper) Client() *ringcentral.Client {
	return ringcentral.NewClient(h.Mock.URL(), ringcentral.StaticToken(testAccessToken), 5*time.Second, logger.NewTestLogger())
}

// TokenSource returns a JWT token source pointed at the mock's token
// endpoint
func (h *TestHelper) TokenSource(clientSecret string) *ringcentral.JWTTokenSource {
	return ringcentral.NewJWTTokenSource(ringcentral.JWTConfig{
		ClientID:     testClientID,
		ClientSecret: clientSecret,
		JWT:          testJWT,
		ServerURL:    h.Mock.URL(),
	}, logger.NewTestLogger())
}

// Executor returns a throttled executor whose limiter never blocks a
// test and whose retry waits are near-instant
func (h *TestHelper) Executor() *throttle.Executor {
	limiter := ratelimit.NewSlidingWindow(1000, time.Second)
	policy := &retry.Policy{
		MaxRetries:    3,
		RateLimitWait: 5 * time.Millisecond,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  time.Millisecond,
			MaxDelay:   4 * time.Millisecond,
			Multiplier: 2.0,
		},
	}
	return throttle.New(limiter, policy, logger.NewTestLogger())
}

// Walker returns a walker over a freshly built client and executor
func (h *TestHelper) Walker() *calllog.Walker {
	return calllog.NewWalker(h.Client(), h.Executor(), logger.NewTestLogger())
}

// seedCallLogs fills the mock with n sequential records, one minute
// apart. recorded decides per index whether the call carries a
// recording; nil means no recordings.
func seedCallLogs(h *TestHelper, n int, recorded func(i int) bool) []ringcentral.CallLogRecord {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	records := make([]ringcentral.CallLogRecord, n)
	for i := range records {
		rec := ringcentral.CallLogRecord{
			ID:        fmt.Sprintf("CL%04d", i+1),
			SessionID: fmt.Sprintf("S%04d", i+1),
			StartTime: base.Add(time.Duration(i) * time.Minute),
			Duration:  45 + i,
			Type:      "Voice",
			Direction: "Outbound",
			Result:    "Call connected",
			From:      ringcentral.CallParty{PhoneNumber: "+15550001111"},
			To:        ringcentral.CallParty{PhoneNumber: fmt.Sprintf("+1555%07d", 2000000+i)},
		}
		if recorded != nil && recorded(i) {
			rec.Recording = &ringcentral.RecordingInfo{
				ID:   fmt.Sprintf("R%04d", i+1),
				Type: "Automatic",
			}
		}
		records[i] = rec
	}

	h.Mock.SeedRecords(records)
	return records
}

// recordIDs projects records to their ids
func recordIDs(records []ringcentral.CallLogRecord) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}

// readAuditIDs extracts the deleted record ids from an audit file, in
// the order they were written
func readAuditIDs(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "Deleted Call Log ID: ") {
			ids = append(ids, strings.TrimPrefix(line, "Deleted Call Log ID: "))
		}
	}
	return ids
}
