package auth

import (
	"os"
	"time"

	"rclogs/pkg/ringcentral"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and exists so CI jobs and containers can run without
// a keyring or credentials file.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Name identifies the backend
func (e *EnvironmentStore) Name() string {
	return "environment"
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables. RC_SERVER is
// optional and falls back to the production server.
func (e *EnvironmentStore) Retrieve() (*Credentials, error) {
	clientID := os.Getenv("RC_CLIENT_ID")
	clientSecret := os.Getenv("RC_CLIENT_SECRET")
	jwtToken := os.Getenv("RC_JWT_TOKEN")

	if clientID == "" || clientSecret == "" || jwtToken == "" {
		return nil, ErrCredentialsNotFound
	}

	serverURL := os.Getenv("RC_SERVER")
	if serverURL == "" {
		serverURL = ringcentral.ProductionServer
	}

	return &Credentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		JWTToken:     jwtToken,
		ServerURL:    serverURL,
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists() bool {
	return os.Getenv("RC_CLIENT_ID") != "" &&
		os.Getenv("RC_CLIENT_SECRET") != "" &&
		os.Getenv("RC_JWT_TOKEN") != ""
}
