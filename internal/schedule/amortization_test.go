package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	t.Run("standard annuity", func(t *testing.T) {
		// 12000 at 12% over 12 months: monthly rate 0.01
		payment := MonthlyPayment(12000, 12, 12)
		assert.InDelta(t, 1066.19, payment, 0.005)
	})

	t.Run("zero rate divides principal evenly", func(t *testing.T) {
		assert.Equal(t, 1000.0, MonthlyPayment(12000, 0, 12))
	})
}

func TestBuildAmortizationSchedule(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("computes the documented example", func(t *testing.T) {
		installments, err := BuildAmortizationSchedule(AmortizationInput{
			Principal:         12000,
			AnnualRate:        12,
			TermMonths:        12,
			StartDate:         start,
			PaymentDayOfMonth: 15,
		})
		require.NoError(t, err)
		require.Len(t, installments, 12)

		first := installments[0]
		assert.Equal(t, 1, first.Number)
		assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), first.DueDate)
		assert.InDelta(t, 120.00, first.Interest, Cents)
		assert.InDelta(t, 946.19, first.Principal, Cents)
		assert.InDelta(t, 11053.81, first.RemainingBalance, Cents)
	})

	t.Run("closing balance is zero", func(t *testing.T) {
		installments, err := BuildAmortizationSchedule(AmortizationInput{
			Principal:         250000,
			AnnualRate:        9.5,
			TermMonths:        36,
			StartDate:         start,
			PaymentDayOfMonth: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, installments[len(installments)-1].RemainingBalance)

		sumPrincipal := 0.0
		for _, inst := range installments {
			sumPrincipal += inst.Principal
		}
		assert.InDelta(t, 250000, sumPrincipal, Cents)
	})

	t.Run("zero rate schedule carries no interest", func(t *testing.T) {
		installments, err := BuildAmortizationSchedule(AmortizationInput{
			Principal:         1200,
			AnnualRate:        0,
			TermMonths:        12,
			StartDate:         start,
			PaymentDayOfMonth: 28,
		})
		require.NoError(t, err)
		require.Len(t, installments, 12)

		for _, inst := range installments {
			assert.Equal(t, 0.0, inst.Interest)
			assert.Equal(t, 100.0, inst.Principal)
		}
		assert.Equal(t, 0.0, installments[11].RemainingBalance)
	})

	t.Run("due dates fall on the payment day", func(t *testing.T) {
		installments, err := BuildAmortizationSchedule(AmortizationInput{
			Principal:         5000,
			AnnualRate:        10,
			TermMonths:        6,
			StartDate:         time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC),
			PaymentDayOfMonth: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
		assert.Equal(t, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), installments[5].DueDate)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := []struct {
			name string
			in   AmortizationInput
		}{
			{"zero principal", AmortizationInput{Principal: 0, AnnualRate: 10, TermMonths: 12, StartDate: start, PaymentDayOfMonth: 15}},
			{"negative rate", AmortizationInput{Principal: 1000, AnnualRate: -1, TermMonths: 12, StartDate: start, PaymentDayOfMonth: 15}},
			{"zero term", AmortizationInput{Principal: 1000, AnnualRate: 10, TermMonths: 0, StartDate: start, PaymentDayOfMonth: 15}},
			{"payment day out of range", AmortizationInput{Principal: 1000, AnnualRate: 10, TermMonths: 12, StartDate: start, PaymentDayOfMonth: 29}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := BuildAmortizationSchedule(tc.in)
				assert.Error(t, err)
			})
		}
	})
}
