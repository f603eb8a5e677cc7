package service

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound means the referenced author, book, or catalogue item does
// not exist.
var ErrNotFound = errors.New("not found")

// Conflict reasons surfaced to the client as rejection strings.
const (
	ReasonAlreadyImported   = "already imported"
	ReasonPreviouslyDeleted = "previously deleted"
)

// ConflictError rejects an import whose target already exists (active) or
// previously existed (soft-deleted). It is control flow, not a failure:
// callers map it to a client-correctable response.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("import conflict: %s", e.Reason)
}

// ReconcileGuard serializes the two operation classes that must never
// overlap: author cascade deletion and bulk ownership rescans. It is
// process-local; per-operation atomicity is the transaction's job.
type ReconcileGuard struct {
	mu sync.Mutex
}

func (g *ReconcileGuard) Lock()   { g.mu.Lock() }
func (g *ReconcileGuard) Unlock() { g.mu.Unlock() }
