package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	errs "rclogs/pkg/errors"
)

// Credentials holds the four values RingCentral JWT authentication
// requires
type Credentials struct {
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	JWTToken     string    `json:"jwt_token"`
	ServerURL    string    `json:"server_url"`
	LastModified time.Time `json:"last_modified"`
}

// Validate checks that every required field is present
func (c *Credentials) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if c.JWTToken == "" {
		missing = append(missing, "JWT token")
	}
	if c.ServerURL == "" {
		missing = append(missing, "server URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete credentials: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Name identifies the backend for status reporting
	Name() string

	// Store saves the credentials
	Store(creds *Credentials) error

	// Retrieve gets the stored credentials
	Retrieve() (*Credentials, error)

	// Delete removes the stored credentials
	Delete() error

	// Exists checks if credentials are present
	Exists() bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Add environment store as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(creds *Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	creds.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(creds); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Resolve gets credentials from the first store that has them and
// reports which store satisfied the lookup
func (m *Manager) Resolve() (*Credentials, string, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(); err == nil && creds != nil {
			return creds, store.Name(), nil
		}
	}
	return nil, "", errs.Wrap(errs.ErrorTypeAuth,
		"no credentials found: run 'rclogs auth login' or set RC_CLIENT_ID, RC_CLIENT_SECRET, RC_JWT_TOKEN, and RC_SERVER",
		ErrCredentialsNotFound)
}

// Delete removes credentials from all stores
func (m *Manager) Delete() error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(); err == nil {
			deleted = true
		} else if !errors.Is(err, ErrCredentialsNotFound) && !errors.Is(err, ErrStoreUnavailable) {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return ErrCredentialsNotFound
	}

	return nil
}

// Exists checks whether any store holds credentials
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "rclogs")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "rclogs")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "rclogs")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "rclogs")
		}
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize creates a copy of the credentials with secrets masked
func Sanitize(creds *Credentials) *Credentials {
	if creds == nil {
		return nil
	}

	return &Credentials{
		ClientID:     creds.ClientID,
		ClientSecret: maskString(creds.ClientSecret),
		JWTToken:     maskString(creds.JWTToken),
		ServerURL:    creds.ServerURL,
		LastModified: creds.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
