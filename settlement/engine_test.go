package settlement_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quetzal-hr/prestaciones-engine/settlement"
	"github.com/quetzal-hr/prestaciones-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) (*settlement.Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	engine := settlement.NewEngine(store, store, store)
	return engine, store
}

func registerEmployee(t *testing.T, store *memory.Store, salary string, hire time.Time) settlement.EmployeeID {
	t.Helper()
	p, err := store.CreateEmployee(context.Background(), settlement.CompensationProfile{
		NationalID: "1234567890101",
		FirstName:  "Ana",
		LastName:   "López",
		BaseSalary: decimal.RequireFromString(salary),
		HireDate:   hire,
		Status:     settlement.StatusActive,
	})
	require.NoError(t, err)
	return p.EmployeeID
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// CALCULATION CONTRACT
// =============================================================================

func TestCalculate_FullYear(t *testing.T) {
	// GIVEN: salary 4500.00, hired 2023-01-01
	// WHEN: terminated 2024-01-01 (365 days)
	// THEN: aguinaldo = bono14 = severance = 4500.00

	engine, store := newTestEngine(t)
	ctx := context.Background()
	id := registerEmployee(t, store, "4500.00", day(2023, time.January, 1))

	rec, err := engine.Calculate(ctx, id, day(2024, time.January, 1))
	require.NoError(t, err)

	assert.Equal(t, 365, rec.DaysOfRelationship)
	assert.True(t, rec.AnnualBonus.Equal(decimal.RequireFromString("4500")), "aguinaldo: %s", rec.AnnualBonus)
	assert.True(t, rec.MidYearBonus.Equal(decimal.RequireFromString("4500")), "bono14: %s", rec.MidYearBonus)
	assert.True(t, rec.Severance.Equal(decimal.RequireFromString("4500")), "severance: %s", rec.Severance)
	assert.True(t, rec.Total.Equal(rec.SumComponents()))
}

func TestCalculate_SurfacesVacationComponents(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	id := registerEmployee(t, store, "6000.00", day(2023, time.January, 1))

	rec, err := engine.Calculate(ctx, id, day(2024, time.January, 1))
	require.NoError(t, err)

	assert.True(t, rec.VacationBase.Equal(decimal.RequireFromString("3000")), "base: %s", rec.VacationBase)
	assert.True(t, rec.VacationPremium.Equal(decimal.RequireFromString("1500")), "premium: %s", rec.VacationPremium)
	assert.True(t, rec.VacationTotal.Equal(decimal.RequireFromString("4500")), "total: %s", rec.VacationTotal)
}

func TestCalculate_AccruedSalaryExcludedFromTotal(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	p, err := store.CreateEmployee(ctx, settlement.CompensationProfile{
		NationalID:     "9876543210101",
		FirstName:      "Luis",
		LastName:       "Martínez",
		BaseSalary:     decimal.RequireFromString("5000.00"),
		AvgCommissions: settlement.Some(decimal.RequireFromString("850.25")),
		IncentiveBonus: settlement.Some(decimal.RequireFromString("250.00")),
		HireDate:       day(2023, time.January, 1),
		Status:         settlement.StatusActive,
	})
	require.NoError(t, err)

	rec, err := engine.Calculate(ctx, p.EmployeeID, day(2024, time.January, 1))
	require.NoError(t, err)

	// Accrued salary is the reference figure: base + commissions + incentive.
	assert.True(t, rec.AccruedSalary.Equal(decimal.RequireFromString("6100.25")), "accrued: %s", rec.AccruedSalary)

	// The total-to-pay sums only the payable components.
	expected := rec.Severance.Add(rec.VacationTotal).Add(rec.AnnualBonus).Add(rec.MidYearBonus).Add(rec.EconomicAdvantages)
	assert.True(t, rec.Total.Equal(expected))
}

func TestCalculate_OptionalComponentsDefaultToZero(t *testing.T) {
	// Absent commissions and incentive resolve to zero at the formula
	// boundary: accrued salary equals the base salary alone.
	engine, store := newTestEngine(t)
	ctx := context.Background()
	id := registerEmployee(t, store, "5000.00", day(2023, time.January, 1))

	rec, err := engine.Calculate(ctx, id, day(2024, time.January, 1))
	require.NoError(t, err)

	assert.True(t, rec.AccruedSalary.Equal(decimal.RequireFromString("5000")), "accrued: %s", rec.AccruedSalary)
}

func TestCalculate_Deterministic(t *testing.T) {
	// Identical inputs on two separate requests produce identical monetary
	// fields; only ids and timestamps differ.
	engine, store := newTestEngine(t)
	ctx := context.Background()
	id := registerEmployee(t, store, "7250.00", day(2021, time.June, 15))
	termination := day(2024, time.October, 31)

	first, err := engine.Calculate(ctx, id, termination)
	require.NoError(t, err)
	second, err := engine.Calculate(ctx, id, termination)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.DaysOfRelationship, second.DaysOfRelationship)
	assert.True(t, first.Severance.Equal(second.Severance))
	assert.True(t, first.VacationTotal.Equal(second.VacationTotal))
	assert.True(t, first.AnnualBonus.Equal(second.AnnualBonus))
	assert.True(t, first.MidYearBonus.Equal(second.MidYearBonus))
	assert.True(t, first.Total.Equal(second.Total))

	// Both computations are in the history.
	records, err := store.ListByEmployee(ctx, id)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCalculate_UsesInjectedClock(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	id := registerEmployee(t, store, "4000.00", day(2022, time.March, 1))

	fixed := time.Date(2024, time.November, 5, 10, 30, 0, 0, time.UTC)
	engine.Now = func() time.Time { return fixed }

	rec, err := engine.Calculate(ctx, id, day(2024, time.November, 1))
	require.NoError(t, err)
	assert.Equal(t, fixed, rec.ComputedAt)
}

// =============================================================================
// FAILURE PATHS - the ledger must not grow
// =============================================================================

func TestCalculate_TerminationNotAfterHire(t *testing.T) {
	// GIVEN: an employee hired 2023-05-01
	// WHEN: termination date equals or precedes the hire date
	// THEN: InvalidInput, and the ledger is untouched

	engine, store := newTestEngine(t)
	ctx := context.Background()
	hire := day(2023, time.May, 1)
	id := registerEmployee(t, store, "3000.00", hire)

	for _, termination := range []time.Time{hire, hire.AddDate(0, 0, -1)} {
		_, err := engine.Calculate(ctx, id, termination)
		assert.Error(t, err)
		assert.True(t, settlement.IsClientError(err), "want client error, got %v", err)

		var invalid *settlement.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, "termination_date", invalid.Field)
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "failed computations must not append")
}

func TestCalculate_UnknownEmployee(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Calculate(ctx, 999, day(2024, time.January, 1))
	assert.True(t, settlement.IsNotFound(err), "want not-found, got %v", err)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCalculate_ZeroSalaryRejectedBeforeFormulas(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	p, err := store.CreateEmployee(ctx, settlement.CompensationProfile{
		NationalID: "1112223330101",
		FirstName:  "Sin",
		LastName:   "Salario",
		BaseSalary: decimal.Zero,
		HireDate:   day(2023, time.January, 1),
		Status:     settlement.StatusActive,
	})
	require.NoError(t, err)

	_, err = engine.Calculate(ctx, p.EmployeeID, day(2024, time.January, 1))
	assert.True(t, settlement.IsClientError(err), "want client error, got %v", err)
}

// =============================================================================
// CONCURRENCY - id uniqueness, no lost appends
// =============================================================================

func TestCalculate_ConcurrentRequestsDistinctIDs(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	const n = 32
	ids := make([]settlement.EmployeeID, n)
	for i := range ids {
		ids[i] = registerEmployee(t, store, "4500.00", day(2022, time.January, 1))
	}

	var wg sync.WaitGroup
	results := make(chan settlement.SettlementID, n)
	for _, id := range ids {
		wg.Add(1)
		go func(id settlement.EmployeeID) {
			defer wg.Done()
			rec, err := engine.Calculate(ctx, id, day(2024, time.January, 1))
			assert.NoError(t, err)
			results <- rec.ID
		}(id)
	}
	wg.Wait()
	close(results)

	seen := make(map[settlement.SettlementID]bool)
	for id := range results {
		assert.False(t, seen[id], "settlement id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, n, "no appends may be lost")
}

func TestAtomicSequence_Concurrent(t *testing.T) {
	seq := settlement.NewAtomicSequence(1)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	results := make(chan settlement.SettlementID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := seq.Next(ctx)
			assert.NoError(t, err)
			results <- id
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[settlement.SettlementID]bool)
	for id := range results {
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
