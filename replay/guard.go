// Package replay implements single-use semantics for transaction
// references. A reference is consumed at most once per (leaf, payer) pair;
// a second presentation of the same reference is denied. This is the only
// shared mutable state in the gateway, so consumption must be atomic.
package replay

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Guard records consumed transaction references. Consume returns true
// exactly once per key; false means the reference was already spent.
// Implementations must be safe for concurrent use and must check-and-insert
// atomically so two concurrent requests cannot both win.
type Guard interface {
	Consume(ctx context.Context, txHash string, leafID uint64, payer string) (bool, error)
}

func key(txHash string, leafID uint64, payer string) string {
	return fmt.Sprintf("leafgate:ref:%d:%s:%s",
		leafID, strings.ToLower(payer), strings.ToLower(txHash))
}

// MemoryGuard is an in-process guard for tests and single-instance
// deployments.
type MemoryGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{seen: make(map[string]struct{})}
}

// Consume implements Guard.
func (g *MemoryGuard) Consume(_ context.Context, txHash string, leafID uint64, payer string) (bool, error) {
	k := key(txHash, leafID, payer)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[k]; ok {
		return false, nil
	}
	g.seen[k] = struct{}{}
	return true, nil
}
