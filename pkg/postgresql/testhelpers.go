package postgresql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelper provides common testing utilities
type TestHelper struct {
	Container *TestContainer
	T         *testing.T
}

// NewTestHelperWithConfig starts a container for the duration of the test.
// It skips the test in -short mode.
func NewTestHelperWithConfig(t *testing.T, config *TestContainerConfig) *TestHelper {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	container, err := NewTestContainer(context.Background(), config)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Close(); err != nil {
			t.Logf("Failed to close test container: %v", err)
		}
	})

	return &TestHelper{
		Container: container,
		T:         t,
	}
}

// CleanupTables truncates the given tables between tests
func (h *TestHelper) CleanupTables(tables ...string) {
	require.NoError(h.T, h.Container.TruncateTables(tables...))
}

// GetClient returns the PostgreSQL client
func (h *TestHelper) GetClient() PostgreSQLClient {
	return h.Container.Client
}
