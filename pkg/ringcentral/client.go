package ringcentral

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	errs "rclogs/pkg/errors"
	"rclogs/pkg/logger"
)

// userAgent identifies this tool to the provider
const userAgent = "rclogs/1.0.0"

// TokenSource supplies the access token for outgoing requests
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken adapts a fixed access token to the TokenSource
// interface, for tests and short-lived scripts
type StaticToken string

// Token returns the fixed token
func (s StaticToken) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

// Client talks to the RingCentral call-log REST API. It performs
// single requests only; admission control and retries belong to the
// executor driving it.
type Client struct {
	httpClient *http.Client
	serverURL  string
	tokens     TokenSource
	logger     logger.Logger
}

// NewClient creates a call-log API client for the given server
func NewClient(serverURL string, tokens TokenSource, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		serverURL: strings.TrimRight(serverURL, "/"),
		tokens:    tokens,
		logger:    log,
	}
}

// ServerURL returns the server this client targets
func (c *Client) ServerURL() string {
	return c.serverURL
}

// ListCallLogs fetches one page of the account's call log
func (c *Client) ListCallLogs(ctx context.Context, params ListParams) (*CallLogResponse, error) {
	return c.getPage(ctx, ListURL(c.serverURL, params))
}

// ListCallLogsByURI fetches the page a navigation cursor points to.
// The cursor's host is discarded; its path and query replay against
// the configured server.
func (c *Client) ListCallLogsByURI(ctx context.Context, uri string) (*CallLogResponse, error) {
	path, err := PathFromURI(uri)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeMalformed, "unusable navigation link", err)
	}
	return c.getPage(ctx, c.serverURL+path)
}

// DeleteCallLog permanently removes one call-log record. Only a 204
// response confirms the deletion.
func (c *Client) DeleteCallLog(ctx context.Context, recordID string) error {
	if recordID == "" {
		return errs.New(errs.ErrorTypeMalformed, "record has no id")
	}

	resp, err := c.doRequest(ctx, http.MethodDelete, RecordURL(c.serverURL, recordID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		c.logger.DebugWithFields("deleted call-log record", map[string]interface{}{
			"record_id": recordID,
		})
		return nil
	}

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	// A 2xx other than 204 does not confirm the deletion
	return &errs.Error{
		Type:       errs.ErrorTypeTransient,
		Message:    fmt.Sprintf("unexpected status %d deleting record %s", resp.StatusCode, recordID),
		StatusCode: resp.StatusCode,
	}
}

// getPage fetches and decodes one listing page
func (c *Client) getPage(ctx context.Context, requestURL string) (*CallLogResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransient, "failed to read response body", err)
	}

	var page CallLogResponse
	if err := json.Unmarshal(body, &page); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse call-log page", map[string]interface{}{
			"url":          requestURL,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, errs.Wrap(errs.ErrorTypeMalformed, "failed to parse call-log page", err)
	}

	return &page, nil
}

// doRequest performs a single authorized HTTP request
func (c *Client) doRequest(ctx context.Context, method, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransient, "failed to create request", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	c.logger.DebugWithFields("sending API request", map[string]interface{}{
		"method": method,
		"url":    requestURL,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("API request failed", map[string]interface{}{
			"method":   method,
			"url":      requestURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeTransient, "network error", err)
	}

	c.logger.DebugWithFields("API request completed", map[string]interface{}{
		"method":   method,
		"url":      requestURL,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// checkResponseStatus classifies a non-success HTTP response
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 400 {
		// Drain failed responses so the connection stays reusable
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil

	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("authentication rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errs.Error{
			Type:       errs.ErrorTypeAuth,
			Message:    "authentication rejected",
			StatusCode: resp.StatusCode,
		}

	case http.StatusTooManyRequests:
		apiErr := &errs.Error{
			Type:       errs.ErrorTypeRateLimit,
			Message:    "rate limit exceeded",
			StatusCode: resp.StatusCode,
		}
		if after, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
			apiErr.RetryAfter = after
			apiErr.RetryAfterSet = true
		}

		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status":      resp.StatusCode,
			"url":         resp.Request.URL.String(),
			"retry_after": resp.Header.Get("Retry-After"),
		})
		return apiErr

	default:
		if resp.StatusCode >= 400 {
			c.logger.WarnWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return &errs.Error{
				Type:       errs.ErrorTypeTransient,
				Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				StatusCode: resp.StatusCode,
			}
		}
		return nil
	}
}

// parseRetryAfter reads an integer-seconds Retry-After value. HTTP
// dates, negatives, and garbage are ignored; the caller falls back to
// the policy default.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
