package auth

import (
	"sync"
)

// MockStore implements CredentialStore for testing purposes
type MockStore struct {
	creds *Credentials
	mu    sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	DeleteError   error
}

// NewMockStore creates a new mock credential store
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Name identifies the backend
func (m *MockStore) Name() string {
	return "mock"
}

// Store saves credentials to the mock store
func (m *MockStore) Store(creds *Credentials) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if creds == nil {
		return ErrInvalidCredentials
	}

	// Keep a copy to avoid external modifications
	credsCopy := *creds
	m.creds = &credsCopy

	return nil
}

// Retrieve gets credentials from the mock store
func (m *MockStore) Retrieve() (*Credentials, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.creds == nil {
		return nil, ErrCredentialsNotFound
	}

	credsCopy := *m.creds
	return &credsCopy, nil
}

// Delete removes credentials from the mock store
func (m *MockStore) Delete() error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.creds == nil {
		return ErrCredentialsNotFound
	}

	m.creds = nil
	return nil
}

// Exists checks if credentials exist in the mock store
func (m *MockStore) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.creds != nil
}

// Clear removes credentials from the mock store (useful for test cleanup)
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds = nil
}

// NewMockManager creates a Manager with a mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	manager := &Manager{
		stores: []CredentialStore{mockStore},
	}
	return manager, mockStore
}

// NewMockManagerWithStores creates a Manager with specific stores for testing
func NewMockManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{
		stores: stores,
	}
}
