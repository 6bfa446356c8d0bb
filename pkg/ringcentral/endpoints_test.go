package ringcentral

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListURL(t *testing.T) {
	server := "https://platform.example.com"

	t.Run("defaults", func(t *testing.T) {
		result := ListURL(server, ListParams{})

		u, err := url.Parse(result)
		require.NoError(t, err)

		assert.Equal(t, CallLogEndpoint, u.Path)
		assert.Equal(t, "100", u.Query().Get("perPage"))
		assert.Empty(t, u.Query().Get("view"))
		assert.Empty(t, u.Query().Get("page"))
	})

	t.Run("all parameters", func(t *testing.T) {
		dateFrom := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		dateTo := time.Date(2025, 7, 1, 12, 30, 0, 0, time.UTC)

		result := ListURL(server, ListParams{
			View:          ViewDetailed,
			PhoneNumber:   "+15551234567",
			Direction:     "Inbound",
			Type:          "Voice",
			RecordingType: "All",
			DateFrom:      dateFrom,
			DateTo:        dateTo,
			PerPage:       250,
			Page:          3,
		})

		u, err := url.Parse(result)
		require.NoError(t, err)

		q := u.Query()
		assert.Equal(t, "Detailed", q.Get("view"))
		assert.Equal(t, "+15551234567", q.Get("phoneNumber"))
		assert.Equal(t, "Inbound", q.Get("direction"))
		assert.Equal(t, "Voice", q.Get("type"))
		assert.Equal(t, "All", q.Get("recordingType"))
		assert.Equal(t, "2025-06-01T00:00:00Z", q.Get("dateFrom"))
		assert.Equal(t, "2025-07-01T12:30:00Z", q.Get("dateTo"))
		assert.Equal(t, "250", q.Get("perPage"))
		assert.Equal(t, "3", q.Get("page"))
	})

	t.Run("dates converted to UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*3600)
		dateFrom := time.Date(2025, 6, 1, 10, 0, 0, 0, loc)

		result := ListURL(server, ListParams{DateFrom: dateFrom})

		u, err := url.Parse(result)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-01T08:00:00Z", u.Query().Get("dateFrom"))
	})

	t.Run("per page clamped to provider maximum", func(t *testing.T) {
		result := ListURL(server, ListParams{PerPage: 5000})

		u, err := url.Parse(result)
		require.NoError(t, err)
		assert.Equal(t, "1000", u.Query().Get("perPage"))
	})
}

func TestRecordURL(t *testing.T) {
	tests := []struct {
		name     string
		recordID string
		expected string
	}{
		{
			name:     "plain id",
			recordID: "IVttRkuBBC1Ique",
			expected: "https://s.example.com/restapi/v1.0/account/~/call-log/IVttRkuBBC1Ique",
		},
		{
			name:     "id needing escaping",
			recordID: "a/b c",
			expected: "https://s.example.com/restapi/v1.0/account/~/call-log/a%2Fb%20c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RecordURL("https://s.example.com", tt.recordID))
		})
	}
}

func TestPathFromURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
		wantErr  bool
	}{
		{
			name:     "absolute link with query",
			uri:      "https://platform.ringcentral.com/restapi/v1.0/account/~/call-log?page=2&perPage=100",
			expected: "/restapi/v1.0/account/~/call-log?page=2&perPage=100",
		},
		{
			name:     "absolute link without query",
			uri:      "https://platform.ringcentral.com/restapi/v1.0/account/~/call-log",
			expected: "/restapi/v1.0/account/~/call-log",
		},
		{
			name:     "foreign host is discarded",
			uri:      "https://media.ringcentral.com/restapi/v1.0/account/~/call-log?page=9",
			expected: "/restapi/v1.0/account/~/call-log?page=9",
		},
		{
			name:    "no path",
			uri:     "https://platform.ringcentral.com",
			wantErr: true,
		},
		{
			name:    "unparseable",
			uri:     "://not a url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := PathFromURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+1 (555) 123-4567", "+15551234567"},
		{"555.123.4567", "5551234567"},
		{"+15551234567", "+15551234567"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneNumber(tt.input))
		})
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"+15551234567", true},
		{"(555) 123-4567", true},
		{"12345", false},
		{"+1234567890123456", false},
		{"not-a-number", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidPhoneNumber(tt.input))
		})
	}
}
