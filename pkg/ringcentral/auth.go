package ringcentral

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	errs "rclogs/pkg/errors"
	"rclogs/pkg/logger"
)

const (
	// jwtGrantType is the OAuth grant for JWT credential flows
	jwtGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// tokenExpirySlack refreshes tokens this long before they expire
	tokenExpirySlack = time.Minute

	// tokenTimeout bounds a single token exchange request
	tokenTimeout = 30 * time.Second
)

// JWTConfig holds the application credentials for the JWT grant
type JWTConfig struct {
	ClientID     string
	ClientSecret string
	JWT          string
	ServerURL    string
}

// JWTTokenSource exchanges a JWT assertion for access tokens and
// caches them until shortly before expiry. Token exchange goes to the
// OAuth endpoint, which sits outside the call-log admission window, so
// it carries its own short retry schedule.
type JWTTokenSource struct {
	cfg        JWTConfig
	httpClient *http.Client
	logger     logger.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewJWTTokenSource creates a token source for the given credentials
func NewJWTTokenSource(cfg JWTConfig, log logger.Logger) *JWTTokenSource {
	if log == nil {
		log = logger.GetLogger()
	}

	return &JWTTokenSource{
		cfg: JWTConfig{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			JWT:          cfg.JWT,
			ServerURL:    strings.TrimRight(cfg.ServerURL, "/"),
		},
		httpClient: &http.Client{
			Timeout: tokenTimeout,
		},
		logger: log,
	}
}

// Token returns a valid access token, refreshing when the cached one
// is within a minute of expiry
func (s *JWTTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if err := s.refresh(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

// refresh exchanges the JWT for a fresh access token, retrying network
// and server hiccups. Credential rejections surface immediately.
func (s *JWTTokenSource) refresh(ctx context.Context) error {
	operation := func() error {
		token, err := s.requestToken(ctx)
		if err != nil {
			if !errs.IsRetryable(errs.TypeOf(err)) {
				return backoff.Permanent(err)
			}
			s.logger.WarnWithFields("token exchange failed, retrying", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		s.accessToken = token.AccessToken
		s.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenExpirySlack)

		s.logger.InfoWithFields("access token issued", map[string]interface{}{
			"expires_in": token.ExpiresIn,
		})
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(expo, 3), ctx))
}

// requestToken performs one token exchange request
func (s *JWTTokenSource) requestToken(ctx context.Context) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", jwtGrantType)
	form.Set("assertion", s.cfg.JWT)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, TokenURL(s.cfg.ServerURL), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransient, "failed to create token request", err)
	}
	req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransient, "token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeTransient, "failed to read token response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode

	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		// invalid_grant and invalid_client both arrive as 400
		s.logger.ErrorWithFields("token exchange rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil, &errs.Error{
			Type:       errs.ErrorTypeAuth,
			Message:    "token exchange rejected, check client credentials and JWT",
			StatusCode: resp.StatusCode,
		}

	default:
		return nil, &errs.Error{
			Type:       errs.ErrorTypeTransient,
			Message:    "token endpoint returned status " + http.StatusText(resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeMalformed, "failed to parse token response", err)
	}
	if token.AccessToken == "" {
		return nil, errs.New(errs.ErrorTypeMalformed, "token response carries no access_token")
	}

	return &token, nil
}
