/*
ledger.go - Append-only settlement history

PURPOSE:
  The Ledger is the durable history of every computed settlement. Records
  are appended, listed, and looked up by employee - nothing else.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once written, records cannot be modified
  3. NO DEDUP: Repeated terminations (e.g. recomputation with a corrected
     date) simply add entries; the ledger records history faithfully
  4. ATOMIC: An append succeeds entirely or not at all

ID ASSIGNMENT:
  Settlement ids come from a Sequence shared across all concurrent writers,
  injected into the engine rather than read from ambient state. The in-memory
  implementation is an atomic counter; a store may instead supply its own
  store-assigned sequence.

SEE ALSO:
  - store/memory: in-memory implementation for tests and dev
  - store/sqlite: production implementation
*/
package settlement

import (
	"context"
	"sync/atomic"
)

// =============================================================================
// LEDGER - Append-only settlement store
// =============================================================================

// Ledger persists settlement records.
//
// INVARIANTS:
//   - Append-only: no update, no delete.
//   - Listing order is reverse-chronological by computation (most recent
//     first), for both views.
type Ledger interface {
	// Append adds one record. This is the ONLY write operation.
	Append(ctx context.Context, rec SettlementRecord) error

	// List returns every record, most recent computation first.
	List(ctx context.Context) ([]SettlementRecord, error)

	// ListByEmployee returns one employee's records, most recent first.
	ListByEmployee(ctx context.Context, id EmployeeID) ([]SettlementRecord, error)
}

// =============================================================================
// SEQUENCE - Settlement id assignment
// =============================================================================

// Sequence hands out settlement ids. Implementations must guarantee global
// uniqueness under concurrent callers.
type Sequence interface {
	Next(ctx context.Context) (SettlementID, error)
}

// AtomicSequence is a process-local Sequence backed by an atomic counter.
type AtomicSequence struct {
	last atomic.Int64
}

// NewAtomicSequence returns a sequence whose first id is start.
func NewAtomicSequence(start SettlementID) *AtomicSequence {
	s := &AtomicSequence{}
	s.last.Store(int64(start) - 1)
	return s
}

func (s *AtomicSequence) Next(_ context.Context) (SettlementID, error) {
	return SettlementID(s.last.Add(1)), nil
}
