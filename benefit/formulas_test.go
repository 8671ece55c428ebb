package benefit_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quetzal-hr/prestaciones-engine/benefit"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimalEqual(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, expected.Equal(actual), "expected %s, got %s (%v)", expected, actual, msgAndArgs)
}

// =============================================================================
// VACATION COMPENSATION
// =============================================================================

func TestVacation_FullYear(t *testing.T) {
	// GIVEN: salary 6000.00 and a full 365-day year
	// THEN: 15 proportional days, daily salary 200, base 3000,
	//       premium 1500, total 4500

	v := benefit.Vacation(dec("6000.00"), 365)

	assertDecimalEqual(t, dec("15"), v.ProportionalDays)
	assertDecimalEqual(t, dec("200"), v.DailySalary)
	assertDecimalEqual(t, dec("3000"), v.Base)
	assertDecimalEqual(t, dec("1500"), v.Premium)
	assertDecimalEqual(t, dec("4500"), v.Total)
}

func TestVacation_HalfYear(t *testing.T) {
	// 182/365 of 15 days ≈ 7.48 days at 100.00/day
	v := benefit.Vacation(dec("3000.00"), 182)

	assertDecimalEqual(t, dec("7.48"), v.ProportionalDays)
	assertDecimalEqual(t, dec("100"), v.DailySalary)
	// base = (3000/30) × (15×182/365) = 100 × 7.479452... = 747.95
	assertDecimalEqual(t, dec("747.95"), v.Base)
	assertDecimalEqual(t, dec("373.98"), v.Premium)
	assertDecimalEqual(t, dec("1121.93"), v.Total)
}

func TestVacation_ZeroDays(t *testing.T) {
	v := benefit.Vacation(dec("5000.00"), 0)

	assert.True(t, v.Base.IsZero())
	assert.True(t, v.Premium.IsZero())
	assert.True(t, v.Total.IsZero())
}

func TestVacation_TotalNeverBelowBase(t *testing.T) {
	// The premium is non-negative, so total >= base always.
	cases := []struct {
		salary string
		days   int
	}{
		{"1.00", 1},
		{"1234.56", 37},
		{"4500.00", 365},
		{"9999.99", 730},
		{"0.01", 10000},
	}

	for _, tc := range cases {
		v := benefit.Vacation(dec(tc.salary), tc.days)
		assert.True(t, v.Total.GreaterThanOrEqual(v.Base),
			"salary=%s days=%d: total %s < base %s", tc.salary, tc.days, v.Total, v.Base)
		assertDecimalEqual(t, v.Base.Add(v.Premium), v.Total, "total must be base + premium")
	}
}

// =============================================================================
// PROPORTIONAL BONUSES
// =============================================================================

func TestAnnualBonus_FullYear(t *testing.T) {
	// salary 4500.00 over 365 days: one full month of salary
	assertDecimalEqual(t, dec("4500"), benefit.AnnualBonus(dec("4500.00"), 365))
}

func TestAnnualBonus_PartialYear(t *testing.T) {
	// 3000.00 × 182/365 = 1495.890..., rounds to 1495.89
	assertDecimalEqual(t, dec("1495.89"), benefit.AnnualBonus(dec("3000.00"), 182))
}

func TestAnnualAndMidYearBonusAgree(t *testing.T) {
	// The two bonuses rest on different statutes but share arithmetic today.
	cases := []struct {
		salary string
		days   int
	}{
		{"0.00", 0},
		{"3000.00", 182},
		{"4500.00", 365},
		{"12345.67", 91},
		{"18000.00", 1979},
	}

	for _, tc := range cases {
		salary := dec(tc.salary)
		assertDecimalEqual(t,
			benefit.AnnualBonus(salary, tc.days),
			benefit.MidYearBonus(salary, tc.days),
			"salary=%s days=%d", tc.salary, tc.days)
	}
}

// =============================================================================
// SEVERANCE
// =============================================================================

func TestSeverance_MatchesFormula(t *testing.T) {
	// severance == salary × days / 365, rounded once at the output
	cases := []struct {
		salary string
		days   int
	}{
		{"4500.00", 365},
		{"3000.00", 182},
		{"18000.00", 1979},
		{"750.50", 1},
	}

	for _, tc := range cases {
		salary := dec(tc.salary)
		expected := salary.Mul(decimal.NewFromInt(int64(tc.days))).Div(decimal.NewFromInt(365)).RoundBank(2)
		assertDecimalEqual(t, expected, benefit.Severance(salary, tc.days),
			"salary=%s days=%d", tc.salary, tc.days)
	}
}

func TestSeverance_FullYearIsOneMonthSalary(t *testing.T) {
	assertDecimalEqual(t, dec("4500"), benefit.Severance(dec("4500.00"), 365))
}

func TestSeverance_FractionalYearsNotRounded(t *testing.T) {
	// 1.5 years of service pays 1.5 months, not 1 or 2.
	got := benefit.Severance(dec("2000.00"), 547) // 547/365 ≈ 1.4986 years
	assertDecimalEqual(t, dec("2997.26"), got)
}

// =============================================================================
// ACCRUED SALARY
// =============================================================================

func TestAccruedSalary(t *testing.T) {
	got := benefit.AccruedSalary(dec("5000.00"), dec("850.25"), dec("250.00"))
	assertDecimalEqual(t, dec("6100.25"), got)
}

func TestAccruedSalary_ZeroOptionals(t *testing.T) {
	got := benefit.AccruedSalary(dec("5000.00"), decimal.Zero, decimal.Zero)
	assertDecimalEqual(t, dec("5000"), got)
}

// =============================================================================
// WHAT-IF DISPATCHER
// =============================================================================

func TestEvaluate_MatchesDirectCalls(t *testing.T) {
	salary := dec("6000.00")
	days := 365

	cases := map[benefit.Kind]decimal.Decimal{
		benefit.KindVacation:     benefit.Vacation(salary, days).Total,
		benefit.KindAnnualBonus:  benefit.AnnualBonus(salary, days),
		benefit.KindMidYearBonus: benefit.MidYearBonus(salary, days),
		benefit.KindSeverance:    benefit.Severance(salary, days),
	}

	for kind, expected := range cases {
		got, err := benefit.Evaluate(kind, salary, days)
		require.NoError(t, err, "kind %s", kind)
		assertDecimalEqual(t, expected, got, "kind %s", kind)
	}
}

func TestEvaluate_UnknownKind(t *testing.T) {
	_, err := benefit.Evaluate("pension", dec("1000.00"), 30)
	assert.Error(t, err)
}

func TestKinds_CoversAllFormulas(t *testing.T) {
	assert.Len(t, benefit.Kinds(), 4)
}

// =============================================================================
// DAY COUNT
// =============================================================================

func TestDaysOfRelationship(t *testing.T) {
	jan1_2023 := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan1_2024 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 365, benefit.DaysOfRelationship(jan1_2023, jan1_2024))

	// Argument order must not change the magnitude.
	assert.Equal(t, 365, benefit.DaysOfRelationship(jan1_2024, jan1_2023))

	// Same day is zero days.
	assert.Equal(t, 0, benefit.DaysOfRelationship(jan1_2023, jan1_2023))
}

func TestDaysOfRelationship_IgnoresTimeOfDay(t *testing.T) {
	hire := time.Date(2023, time.May, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2023, time.May, 2, 0, 15, 0, 0, time.UTC)

	assert.Equal(t, 1, benefit.DaysOfRelationship(hire, end))
}

func TestDaysOfRelationship_LeapYear(t *testing.T) {
	feb1 := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 29, benefit.DaysOfRelationship(feb1, mar1))
}
