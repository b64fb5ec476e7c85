package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceTerm(t *testing.T) {
	firstDue := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	t.Run("keeps the payment and shortens the term", func(t *testing.T) {
		installments, err := ReduceTerm(RecalcInput{
			Balance:            5000,
			AnnualRate:         12,
			Payment:            1066.19,
			FirstPaymentNumber: 4,
			FirstDueDate:       firstDue,
		})
		require.NoError(t, err)
		require.NotEmpty(t, installments)

		// 5000 at 1% monthly with a 1066.19 payment clears in 5 months
		assert.Len(t, installments, 5)
		assert.Equal(t, 4, installments[0].Number)
		assert.Equal(t, firstDue, installments[0].DueDate)
		assert.Equal(t, 0.0, installments[len(installments)-1].RemainingBalance)

		for _, inst := range installments[:len(installments)-1] {
			assert.InDelta(t, 1066.19, inst.Payment, Cents)
		}
		// closing installment only covers what is left
		assert.Less(t, installments[len(installments)-1].Payment, 1066.19)

		sumPrincipal := 0.0
		for _, inst := range installments {
			sumPrincipal += inst.Principal
		}
		assert.InDelta(t, 5000, sumPrincipal, Cents)
	})

	t.Run("numbers and dates run consecutively", func(t *testing.T) {
		installments, err := ReduceTerm(RecalcInput{
			Balance:            2000,
			AnnualRate:         0,
			Payment:            500,
			FirstPaymentNumber: 7,
			FirstDueDate:       firstDue,
		})
		require.NoError(t, err)
		require.Len(t, installments, 4)
		for i, inst := range installments {
			assert.Equal(t, 7+i, inst.Number)
			assert.Equal(t, firstDue.AddDate(0, i, 0), inst.DueDate)
		}
	})

	t.Run("nothing to regenerate on zero balance", func(t *testing.T) {
		installments, err := ReduceTerm(RecalcInput{Balance: 0, Payment: 100})
		require.NoError(t, err)
		assert.Empty(t, installments)
	})

	t.Run("rejects a payment the interest swallows", func(t *testing.T) {
		_, err := ReduceTerm(RecalcInput{
			Balance:            100000,
			AnnualRate:         24,
			Payment:            1000, // monthly interest alone is 2000
			FirstPaymentNumber: 1,
			FirstDueDate:       firstDue,
		})
		assert.Error(t, err)
	})
}

func TestReducePayment(t *testing.T) {
	firstDue := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	t.Run("keeps the count and lowers the payment", func(t *testing.T) {
		installments, err := ReducePayment(RecalcInput{
			Balance:            5000,
			AnnualRate:         12,
			RemainingMonths:    8,
			FirstPaymentNumber: 4,
			FirstDueDate:       firstDue,
		})
		require.NoError(t, err)
		require.Len(t, installments, 8)

		expected := MonthlyPayment(5000, 12, 8)
		assert.InDelta(t, expected, installments[0].Payment, Cents)
		assert.Equal(t, 0.0, installments[7].RemainingBalance)

		sumPrincipal := 0.0
		for _, inst := range installments {
			sumPrincipal += inst.Principal
		}
		assert.InDelta(t, 5000, sumPrincipal, Cents)
	})

	t.Run("rejects zero remaining months", func(t *testing.T) {
		_, err := ReducePayment(RecalcInput{Balance: 5000, RemainingMonths: 0})
		assert.Error(t, err)
	})
}
