package core

// import_guard.go limits import submissions to one in flight per operator.
//
// The guard is the server-side counterpart of a disabled file picker: while an
// operator's import is being read and submitted, a second one is refused with
// ErrImportInProgress instead of queueing. A global semaphore additionally
// caps how many operators can import at once.
//
// The guard also supports graceful shutdown via WaitForDrain, which blocks
// until all active imports complete.

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxConcurrentImports is the default cap across all operators.
const DefaultMaxConcurrentImports = 4

// ImportGuard tracks in-flight imports per operator key.
type ImportGuard struct {
	semaphore chan struct{}

	mu     sync.Mutex
	active map[string]struct{}
}

// NewImportGuard creates a guard allowing at most maxConcurrent imports overall.
func NewImportGuard(maxConcurrent int) *ImportGuard {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	return &ImportGuard{
		semaphore: make(chan struct{}, maxConcurrent),
		active:    make(map[string]struct{}),
	}
}

// TryAcquire claims the import slot for key without blocking.
// Returns ErrImportInProgress when key already holds a slot or all slots are taken.
// The caller MUST call Release(key) after a successful acquire (use defer).
func (g *ImportGuard) TryAcquire(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[key]; busy {
		return ErrImportInProgress
	}

	select {
	case g.semaphore <- struct{}{}:
		g.active[key] = struct{}{}
		return nil
	default:
		return ErrImportInProgress
	}
}

// Release frees the slot held by key. Releasing a key that holds no slot is a no-op.
func (g *ImportGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.active[key]; !ok {
		return
	}
	delete(g.active, key)
	<-g.semaphore
}

// InProgress reports whether key currently holds a slot.
func (g *ImportGuard) InProgress(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.active[key]
	return ok
}

// ActiveCount returns the number of imports in flight.
func (g *ImportGuard) ActiveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active)
}

// WaitForDrain blocks until all active imports complete or ctx is cancelled.
func (g *ImportGuard) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if g.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ImportGuardStatus is a snapshot of the guard's state.
type ImportGuardStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current guard state for monitoring.
func (g *ImportGuard) Status() ImportGuardStatus {
	g.mu.Lock()
	active := len(g.active)
	g.mu.Unlock()

	return ImportGuardStatus{
		Active:        active,
		Available:     cap(g.semaphore) - len(g.semaphore),
		MaxConcurrent: cap(g.semaphore),
	}
}
