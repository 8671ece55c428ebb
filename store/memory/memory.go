// Package memory provides an in-memory store for tests and development.
package memory

import (
	"context"
	"sync"

	"github.com/quetzal-hr/prestaciones-engine/settlement"
)

// =============================================================================
// MEMORY STORE - employee registry + settlement ledger (for testing/dev)
// =============================================================================

// Store keeps employee profiles and the settlement ledger in process memory.
// It implements settlement.ProfileSource, settlement.Ledger, and
// settlement.Sequence.
type Store struct {
	mu sync.RWMutex

	employees      map[settlement.EmployeeID]settlement.CompensationProfile
	nextEmployeeID settlement.EmployeeID

	settlements  []settlement.SettlementRecord
	byEmployee   map[settlement.EmployeeID][]int // indices into settlements
	nextRecordID settlement.SettlementID
}

func New() *Store {
	return &Store{
		employees:      make(map[settlement.EmployeeID]settlement.CompensationProfile),
		nextEmployeeID: 1,
		byEmployee:     make(map[settlement.EmployeeID][]int),
		nextRecordID:   1,
	}
}

// =============================================================================
// EMPLOYEE REGISTRY
// =============================================================================

// CreateEmployee assigns the next employee id and stores the profile.
func (s *Store) CreateEmployee(_ context.Context, p settlement.CompensationProfile) (settlement.CompensationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.EmployeeID = s.nextEmployeeID
	if p.Status == "" {
		p.Status = settlement.StatusActive
	}
	s.nextEmployeeID++
	s.employees[p.EmployeeID] = p
	return p, nil
}

// Profile implements settlement.ProfileSource.
func (s *Store) Profile(_ context.Context, id settlement.EmployeeID) (settlement.CompensationProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.employees[id]
	if !ok {
		return settlement.CompensationProfile{}, settlement.ErrEmployeeNotFound
	}
	return p, nil
}

// UpdateEmployee replaces a profile. The id must already exist.
func (s *Store) UpdateEmployee(_ context.Context, p settlement.CompensationProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[p.EmployeeID]; !ok {
		return settlement.ErrEmployeeNotFound
	}
	s.employees[p.EmployeeID] = p
	return nil
}

// DeleteEmployee removes a profile. Settlement records referencing the
// employee are history and stay in the ledger.
func (s *Store) DeleteEmployee(_ context.Context, id settlement.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return settlement.ErrEmployeeNotFound
	}
	delete(s.employees, id)
	return nil
}

// ListEmployees returns profiles ordered by employee id. With activeOnly,
// INACTIVE profiles are skipped.
func (s *Store) ListEmployees(_ context.Context, activeOnly bool) ([]settlement.CompensationProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]settlement.CompensationProfile, 0, len(s.employees))
	for id := settlement.EmployeeID(1); id < s.nextEmployeeID; id++ {
		p, ok := s.employees[id]
		if !ok {
			continue
		}
		if activeOnly && p.Status != settlement.StatusActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// =============================================================================
// SETTLEMENT LEDGER (settlement.Ledger)
// =============================================================================

// Append adds a record. Append-only.
func (s *Store) Append(_ context.Context, rec settlement.SettlementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settlements = append(s.settlements, rec)
	idx := len(s.settlements) - 1
	s.byEmployee[rec.EmployeeID] = append(s.byEmployee[rec.EmployeeID], idx)
	return nil
}

// List returns every record, most recent computation first.
func (s *Store) List(_ context.Context) ([]settlement.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]settlement.SettlementRecord, len(s.settlements))
	for i, rec := range s.settlements {
		out[len(s.settlements)-1-i] = rec
	}
	return out, nil
}

// ListByEmployee returns one employee's records, most recent first.
func (s *Store) ListByEmployee(_ context.Context, id settlement.EmployeeID) ([]settlement.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indices := s.byEmployee[id]
	out := make([]settlement.SettlementRecord, len(indices))
	for i, idx := range indices {
		out[len(indices)-1-i] = s.settlements[idx]
	}
	return out, nil
}

// =============================================================================
// SEQUENCE (settlement.Sequence)
// =============================================================================

// Next hands out the next settlement id under the store lock.
func (s *Store) Next(_ context.Context) (settlement.SettlementID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextRecordID
	s.nextRecordID++
	return id, nil
}
