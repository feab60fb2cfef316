package core

import (
	"sync"
)

// TestReporter is the subset of *testing.T the engine reports failures to.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// ForTest returns the Engine for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Engine, so mocks
// created in helpers share one ledger with the test body.
//
// The new engine reports DSL failures to t. If the TestReporter supports
// Cleanup (like *testing.T), the Engine is reset and removed from the
// registry when the test completes.
func ForTest(t TestReporter, opts ...Option) *Engine {
	registryMu.Lock()
	defer registryMu.Unlock()

	if engine, ok := registry[t]; ok {
		return engine
	}

	engine := NewEngine(append([]Option{WithReporter(t)}, opts...)...)
	registry[t] = engine

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()

			engine.Reset()
		})
	}

	return engine
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Engine)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
