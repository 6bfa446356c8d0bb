package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rclogs/pkg/ringcentral"
)

// listPage fetches one listing page with the mock's access token and
// decodes it when the status is 200
func listPage(t *testing.T, rawURL string) (*ringcentral.CallLogResponse, int) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testAccessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode
	}

	var page ringcentral.CallLogResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	return &page, resp.StatusCode
}

func TestMockServerPaginatesListings(t *testing.T) {
	h := NewTestHelper(t)
	seedCallLogs(h, 12, nil)

	page, status := listPage(t, h.Mock.URL()+ringcentral.CallLogEndpoint+"?perPage=5")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, page.Records, 5)
	assert.Equal(t, 12, page.Paging.TotalElements)
	require.True(t, page.HasNextPage())

	page, status = listPage(t, page.Navigation.NextPage.URI)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, page.Records, 5)
	require.True(t, page.HasNextPage())

	page, status = listPage(t, page.Navigation.NextPage.URI)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, page.Records, 2)
	assert.False(t, page.HasNextPage())
}

func TestMockServerRequiresBearerToken(t *testing.T) {
	h := NewTestHelper(t)
	seedCallLogs(h, 1, nil)

	resp, err := http.Get(h.Mock.URL() + ringcentral.CallLogEndpoint)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, h.Mock.URL()+ringcentral.CallLogEndpoint, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer stale-token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMockServerDeletesRecords(t *testing.T) {
	h := NewTestHelper(t)
	seedCallLogs(h, 3, nil)

	deleteRecord := func(id string) int {
		req, err := http.NewRequest(http.MethodDelete, ringcentral.RecordURL(h.Mock.URL(), id), nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+testAccessToken)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, deleteRecord("CL0002"))
	assert.Equal(t, []string{"CL0001", "CL0003"}, recordIDs(h.Mock.Remaining()))

	// Already gone
	assert.Equal(t, http.StatusNotFound, deleteRecord("CL0002"))
	assert.Equal(t, 2, h.Mock.DeleteAttempts())
}

func TestMockServerFiltersByPhoneAndDate(t *testing.T) {
	h := NewTestHelper(t)

	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
	}
	h.Mock.SeedRecords([]ringcentral.CallLogRecord{
		{ID: "A1", StartTime: day(1), From: ringcentral.CallParty{PhoneNumber: "+15550000001"}, To: ringcentral.CallParty{PhoneNumber: "+15559990000"}},
		{ID: "A2", StartTime: day(2), From: ringcentral.CallParty{PhoneNumber: "+15550000002"}, To: ringcentral.CallParty{PhoneNumber: "+15559990000"}},
		{ID: "B1", StartTime: day(3), From: ringcentral.CallParty{PhoneNumber: "+15550000001"}, To: ringcentral.CallParty{PhoneNumber: "+15558880000"}},
	})

	q := url.Values{}
	q.Set("phoneNumber", "+15559990000")
	page, status := listPage(t, h.Mock.URL()+ringcentral.CallLogEndpoint+"?"+q.Encode())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"A1", "A2"}, recordIDs(page.Records))

	// dateTo is exclusive, matching the provider's range semantics
	q = url.Values{}
	q.Set("dateFrom", day(2).Format(time.RFC3339))
	q.Set("dateTo", day(3).Format(time.RFC3339))
	page, status = listPage(t, h.Mock.URL()+ringcentral.CallLogEndpoint+"?"+q.Encode())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"A2"}, recordIDs(page.Records))
}

func TestMockServerIssuesTokens(t *testing.T) {
	h := NewTestHelper(t)

	exchange := func(secret string) (*http.Response, error) {
		form := url.Values{}
		form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
		form.Set("assertion", testJWT)

		req, err := http.NewRequest(http.MethodPost, ringcentral.TokenURL(h.Mock.URL()), strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(testClientID, secret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return http.DefaultClient.Do(req)
	}

	resp, err := exchange(testClientSecret)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token ringcentral.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&token))
	assert.Equal(t, testAccessToken, token.AccessToken)
	assert.Equal(t, 3600, token.ExpiresIn)

	rejected, err := exchange("not-the-secret")
	require.NoError(t, err)
	rejected.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, rejected.StatusCode)
	assert.Equal(t, 2, h.Mock.TokenRequests())
}
