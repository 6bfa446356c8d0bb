package ringcentral

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	// ProductionServer is RingCentral's production API server
	ProductionServer = "https://platform.ringcentral.com"

	// SandboxServer is RingCentral's developer sandbox server
	SandboxServer = "https://platform.devtest.ringcentral.com"

	// CallLogEndpoint lists the account's call-log records
	CallLogEndpoint = "/restapi/v1.0/account/~/call-log"

	// TokenEndpoint exchanges credentials for access tokens
	TokenEndpoint = "/restapi/oauth/token"

	// ViewSimple requests records without leg details
	ViewSimple = "Simple"

	// ViewDetailed requests records with their legs expanded
	ViewDetailed = "Detailed"

	// DefaultPerPage is the page size used when none is requested
	DefaultPerPage = 100

	// MaxPerPage is the largest page size the provider accepts
	MaxPerPage = 1000
)

// ListParams are the query parameters of a call-log listing. Zero
// values are omitted from the request.
type ListParams struct {
	View          string
	PhoneNumber   string
	Direction     string
	Type          string
	RecordingType string
	DateFrom      time.Time
	DateTo        time.Time
	PerPage       int
	Page          int
}

// ListURL constructs the call-log listing URL against the given server
func ListURL(serverURL string, params ListParams) string {
	q := url.Values{}
	if params.View != "" {
		q.Set("view", params.View)
	}
	if params.PhoneNumber != "" {
		q.Set("phoneNumber", params.PhoneNumber)
	}
	if params.Direction != "" {
		q.Set("direction", params.Direction)
	}
	if params.Type != "" {
		q.Set("type", params.Type)
	}
	if params.RecordingType != "" {
		q.Set("recordingType", params.RecordingType)
	}
	if !params.DateFrom.IsZero() {
		q.Set("dateFrom", params.DateFrom.UTC().Format(time.RFC3339))
	}
	if !params.DateTo.IsZero() {
		q.Set("dateTo", params.DateTo.UTC().Format(time.RFC3339))
	}

	perPage := params.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	} else if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	q.Set("perPage", strconv.Itoa(perPage))

	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}

	return fmt.Sprintf("%s%s?%s", serverURL, CallLogEndpoint, q.Encode())
}

// RecordURL constructs the URL of a single call-log record
func RecordURL(serverURL, recordID string) string {
	return fmt.Sprintf("%s%s/%s", serverURL, CallLogEndpoint, url.PathEscape(recordID))
}

// TokenURL constructs the OAuth token endpoint URL
func TokenURL(serverURL string) string {
	return serverURL + TokenEndpoint
}

// PathFromURI reduces an absolute navigation link to its path and
// query so a cursor can replay against the configured server,
// whatever host the provider stamped into it.
func PathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid navigation link %q: %w", uri, err)
	}
	if u.Path == "" {
		return "", fmt.Errorf("navigation link %q has no path", uri)
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery, nil
	}
	return u.Path, nil
}

// NormalizePhoneNumber strips formatting characters from a phone
// number, keeping digits and a single leading plus sign
func NormalizePhoneNumber(number string) string {
	normalized := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		c := number[i]
		switch {
		case c >= '0' && c <= '9':
			normalized = append(normalized, c)
		case c == '+' && len(normalized) == 0:
			normalized = append(normalized, c)
		case c == ' ' || c == '-' || c == '.' || c == '(' || c == ')':
			// formatting only
		default:
			normalized = append(normalized, c)
		}
	}
	return string(normalized)
}

// IsValidPhoneNumber checks whether a number looks like an E.164 phone
// number after normalization
func IsValidPhoneNumber(number string) bool {
	normalized := NormalizePhoneNumber(number)
	if normalized == "" {
		return false
	}

	digits := normalized
	if digits[0] == '+' {
		digits = digits[1:]
	}
	if len(digits) < 7 || len(digits) > 15 {
		return false
	}

	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
