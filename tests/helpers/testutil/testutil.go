// Package testutil provides testify mocks shared by package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// MockGateway is a mock implementation of the remote service.
type MockGateway struct {
	mock.Mock
}

// Login mocks the Login method.
func (m *MockGateway) Login(ctx context.Context, email, password string) (*gateway.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.LoginResponse), args.Error(1)
}

// Register mocks the Register method.
func (m *MockGateway) Register(ctx context.Context, reg types.Registration) (*gateway.RegisterResponse, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.RegisterResponse), args.Error(1)
}

// FetchProfile mocks the FetchProfile method.
func (m *MockGateway) FetchProfile(ctx context.Context, token string) (*gateway.ProfileResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ProfileResponse), args.Error(1)
}

// SwitchActiveWorkspace mocks the SwitchActiveWorkspace method.
func (m *MockGateway) SwitchActiveWorkspace(ctx context.Context, token, workspaceID string) (*types.Workspace, error) {
	args := m.Called(ctx, token, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Workspace), args.Error(1)
}

// CreateWorkspace mocks the CreateWorkspace method.
func (m *MockGateway) CreateWorkspace(ctx context.Context, token string, draft types.WorkspaceDraft) (*types.Workspace, error) {
	args := m.Called(ctx, token, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Workspace), args.Error(1)
}

// UpdateWorkspace mocks the UpdateWorkspace method.
func (m *MockGateway) UpdateWorkspace(ctx context.Context, token, workspaceID string, draft types.WorkspaceDraft) (*types.Workspace, error) {
	args := m.Called(ctx, token, workspaceID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Workspace), args.Error(1)
}

// DeleteWorkspace mocks the DeleteWorkspace method.
func (m *MockGateway) DeleteWorkspace(ctx context.Context, token, workspaceID string) error {
	return m.Called(ctx, token, workspaceID).Error(0)
}

// UpdateProfile mocks the UpdateProfile method.
func (m *MockGateway) UpdateProfile(ctx context.Context, token string, update types.ProfileUpdate) (*gateway.User, error) {
	args := m.Called(ctx, token, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.User), args.Error(1)
}

// DeleteAccount mocks the DeleteAccount method.
func (m *MockGateway) DeleteAccount(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// NewMockGateway creates a mock gateway whose expectations are asserted
// when the test ends.
func NewMockGateway(t *testing.T) *MockGateway {
	t.Helper()
	m := new(MockGateway)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockPersistence records calls like a mock and stores values like a map.
// Failures for a key are injected with On("Set"|"Get"|"Remove", ...).
type MockPersistence struct {
	mock.Mock

	mu       sync.Mutex
	values   map[string]string
	expected map[string]bool
}

// NewMockPersistence creates an in-memory persistence mock. Calls pass
// through to a map unless an expectation was registered for the method.
func NewMockPersistence(t *testing.T) *MockPersistence {
	t.Helper()
	return &MockPersistence{
		values:   make(map[string]string),
		expected: make(map[string]bool),
	}
}

// On registers an expectation and routes later calls of the method
// through it.
func (m *MockPersistence) On(methodName string, arguments ...interface{}) *mock.Call {
	m.mu.Lock()
	m.expected[methodName] = true
	m.mu.Unlock()
	return m.Mock.On(methodName, arguments...)
}

func (m *MockPersistence) mocked(method string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expected[method]
}

// Get mocks the Get method.
func (m *MockPersistence) Get(ctx context.Context, key string) (string, bool, error) {
	if m.mocked("Get") {
		args := m.Called(ctx, key)
		return args.String(0), args.Bool(1), args.Error(2)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set mocks the Set method.
func (m *MockPersistence) Set(ctx context.Context, key, value string) error {
	if m.mocked("Set") {
		if err := m.Called(ctx, key, value).Error(0); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove mocks the Remove method.
func (m *MockPersistence) Remove(ctx context.Context, key string) error {
	if m.mocked("Remove") {
		if err := m.Called(ctx, key).Error(0); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Value returns what is stored under key.
func (m *MockPersistence) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Put stores a value without recording a call.
func (m *MockPersistence) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
