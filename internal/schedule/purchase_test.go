package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPurchaseSchedule(t *testing.T) {
	t.Run("splits evenly into equal installments", func(t *testing.T) {
		installments, err := BuildPurchaseSchedule(PurchaseInput{
			TotalAmount:        300,
			InstallmentsCount:  3,
			PurchaseDate:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			StatementCutoffDay: 15,
			PaymentDueDay:      5,
		})
		require.NoError(t, err)
		require.Len(t, installments, 3)

		for i, inst := range installments {
			assert.Equal(t, i+1, inst.Number)
			assert.Equal(t, 100.0, inst.Amount)
			assert.Equal(t, 5, inst.DueDate.Day())
		}
	})

	t.Run("purchase before cutoff day starts one month out", func(t *testing.T) {
		installments, err := BuildPurchaseSchedule(PurchaseInput{
			TotalAmount:        300,
			InstallmentsCount:  3,
			PurchaseDate:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			StatementCutoffDay: 15,
			PaymentDueDay:      5,
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
		assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
	})

	t.Run("purchase on or after cutoff day shifts one extra month", func(t *testing.T) {
		installments, err := BuildPurchaseSchedule(PurchaseInput{
			TotalAmount:        300,
			InstallmentsCount:  3,
			PurchaseDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			StatementCutoffDay: 15,
			PaymentDueDay:      5,
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	})

	t.Run("rounding remainder lands on the last installment", func(t *testing.T) {
		installments, err := BuildPurchaseSchedule(PurchaseInput{
			TotalAmount:        100,
			InstallmentsCount:  3,
			PurchaseDate:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			StatementCutoffDay: 20,
			PaymentDueDay:      10,
		})
		require.NoError(t, err)
		assert.Equal(t, 33.33, installments[0].Amount)
		assert.Equal(t, 33.33, installments[1].Amount)
		assert.Equal(t, 33.34, installments[2].Amount)
	})

	t.Run("installments sum to the total", func(t *testing.T) {
		totals := []float64{100, 999.99, 1234.56, 7}
		counts := []int{1, 3, 7, 12}
		for _, total := range totals {
			for _, count := range counts {
				installments, err := BuildPurchaseSchedule(PurchaseInput{
					TotalAmount:        total,
					InstallmentsCount:  count,
					PurchaseDate:       time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC),
					StatementCutoffDay: 25,
					PaymentDueDay:      15,
				})
				require.NoError(t, err)

				sum := 0.0
				for _, inst := range installments {
					sum += inst.Amount
				}
				assert.InDelta(t, total, sum, Cents, "total=%.2f count=%d", total, count)
			}
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		base := PurchaseInput{
			TotalAmount:        100,
			InstallmentsCount:  3,
			PurchaseDate:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			StatementCutoffDay: 20,
			PaymentDueDay:      10,
		}

		in := base
		in.TotalAmount = 0
		_, err := BuildPurchaseSchedule(in)
		assert.Error(t, err)

		in = base
		in.InstallmentsCount = 0
		_, err = BuildPurchaseSchedule(in)
		assert.Error(t, err)

		in = base
		in.StatementCutoffDay = 32
		_, err = BuildPurchaseSchedule(in)
		assert.Error(t, err)

		in = base
		in.PaymentDueDay = 0
		_, err = BuildPurchaseSchedule(in)
		assert.Error(t, err)
	})
}
