package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wezzertop/zafinan/internal/models"
)

type recurringFixture struct {
	store      *store
	svc        *RecurringService
	userID     uuid.UUID
	accountID  uuid.UUID
	savingsID  uuid.UUID
	categoryID uuid.UUID
}

func newRecurringFixture(t *testing.T) *recurringFixture {
	t.Helper()
	s := newStore()

	userID := uuid.New()
	s.users[userID] = &models.User{ID: userID, Email: "user@example.com"}

	accountID := uuid.New()
	s.accounts[accountID] = &models.Account{
		ID:     accountID,
		UserID: userID,
		Name:   "Checking",
		Type:   models.AccountTypeChecking,
	}
	savingsID := uuid.New()
	s.accounts[savingsID] = &models.Account{
		ID:     savingsID,
		UserID: userID,
		Name:   "Savings",
		Type:   models.AccountTypeSavings,
	}

	categoryID := uuid.New()
	s.categories[categoryID] = &models.Category{
		ID:     categoryID,
		UserID: userID,
		Name:   "Rent",
		Type:   models.CategoryTypeExpense,
	}

	svc := NewRecurringService(&fakeRecurring{s}, &fakeTransactions{s}, &fakeAccounts{s}, testLogger())
	return &recurringFixture{store: s, svc: svc, userID: userID, accountID: accountID, savingsID: savingsID, categoryID: categoryID}
}

func (f *recurringFixture) rentRequest() models.RecurringTransactionRequest {
	return models.RecurringTransactionRequest{
		AccountID:   f.accountID,
		CategoryID:  &f.categoryID,
		Description: "Rent",
		Amount:      850,
		Type:        models.TransactionTypeExpense,
		Frequency:   models.FrequencyMonthly,
		StartDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecurringService_Create(t *testing.T) {
	t.Run("next due date starts at the start date", func(t *testing.T) {
		f := newRecurringFixture(t)

		recurring, err := f.svc.Create(context.Background(), f.userID, f.rentRequest())
		require.NoError(t, err)
		assert.Equal(t, recurring.StartDate, recurring.NextDueDate)
		assert.Equal(t, models.FrequencyMonthly, recurring.Frequency)
		assert.Empty(t, f.store.transactions)
	})

	t.Run("transfers carry a destination and no category", func(t *testing.T) {
		f := newRecurringFixture(t)

		req := f.rentRequest()
		req.Type = models.TransactionTypeTransfer
		req.DestinationAccountID = &f.savingsID

		recurring, err := f.svc.Create(context.Background(), f.userID, req)
		require.NoError(t, err)
		assert.Nil(t, recurring.CategoryID)
		require.NotNil(t, recurring.DestinationAccountID)
		assert.Equal(t, f.savingsID, *recurring.DestinationAccountID)
	})

	t.Run("rejects an unknown frequency", func(t *testing.T) {
		f := newRecurringFixture(t)

		req := f.rentRequest()
		req.Frequency = "fortnightly"
		_, err := f.svc.Create(context.Background(), f.userID, req)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "frequency", vErr.Field)
	})

	t.Run("rejects an account owned by someone else", func(t *testing.T) {
		f := newRecurringFixture(t)

		_, err := f.svc.Create(context.Background(), uuid.New(), f.rentRequest())
		assert.ErrorIs(t, err, ErrNotOwned)
	})
}

func TestRecurringService_Execute(t *testing.T) {
	t.Run("posts a ledger entry and advances one month", func(t *testing.T) {
		f := newRecurringFixture(t)
		recurring, err := f.svc.Create(context.Background(), f.userID, f.rentRequest())
		require.NoError(t, err)

		transaction, err := f.svc.Execute(context.Background(), f.userID, recurring.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeExpense, transaction.Type)
		assert.Equal(t, 850.0, transaction.Amount)
		assert.Equal(t, recurring.NextDueDate, transaction.Date)
		assert.Contains(t, f.store.transactions, transaction.ID)

		after, err := f.svc.recurring.GetByID(context.Background(), recurring.ID)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), after.NextDueDate)
	})

	t.Run("each frequency advances by its own step", func(t *testing.T) {
		f := newRecurringFixture(t)

		steps := map[models.RecurrenceFrequency]time.Time{
			models.FrequencyDaily:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			models.FrequencyWeekly:  time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
			models.FrequencyMonthly: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			models.FrequencyYearly:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		}
		for frequency, want := range steps {
			req := f.rentRequest()
			req.Frequency = frequency
			recurring, err := f.svc.Create(context.Background(), f.userID, req)
			require.NoError(t, err)

			_, err = f.svc.Execute(context.Background(), f.userID, recurring.ID)
			require.NoError(t, err)

			after, err := f.svc.recurring.GetByID(context.Background(), recurring.ID)
			require.NoError(t, err)
			assert.Equal(t, want, after.NextDueDate, "frequency %s", frequency)
		}
	})

	t.Run("removes the posted entry when the advance fails", func(t *testing.T) {
		f := newRecurringFixture(t)
		recurring, err := f.svc.Create(context.Background(), f.userID, f.rentRequest())
		require.NoError(t, err)

		f.store.failSetNextDue = true
		_, err = f.svc.Execute(context.Background(), f.userID, recurring.ID)
		require.Error(t, err)
		assert.Empty(t, f.store.transactions)

		after, err := f.svc.recurring.GetByID(context.Background(), recurring.ID)
		require.NoError(t, err)
		assert.Equal(t, recurring.NextDueDate, after.NextDueDate)
	})

	t.Run("rejects executing someone else's template", func(t *testing.T) {
		f := newRecurringFixture(t)
		recurring, err := f.svc.Create(context.Background(), f.userID, f.rentRequest())
		require.NoError(t, err)

		_, err = f.svc.Execute(context.Background(), uuid.New(), recurring.ID)
		assert.ErrorIs(t, err, ErrNotOwned)
		assert.Empty(t, f.store.transactions)
	})
}

func TestRecurringService_Update(t *testing.T) {
	t.Run("changing the start date resets the next due date", func(t *testing.T) {
		f := newRecurringFixture(t)
		recurring, err := f.svc.Create(context.Background(), f.userID, f.rentRequest())
		require.NoError(t, err)

		_, err = f.svc.Execute(context.Background(), f.userID, recurring.ID)
		require.NoError(t, err)

		req := f.rentRequest()
		req.StartDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
		updated, err := f.svc.Update(context.Background(), f.userID, recurring.ID, req)
		require.NoError(t, err)
		assert.Equal(t, req.StartDate, updated.NextDueDate)
	})

	t.Run("keeping the start date keeps the advanced due date", func(t *testing.T) {
		f := newRecurringFixture(t)
		recurring, err := f.svc.Create(context.Background(), f.userID, f.rentRequest())
		require.NoError(t, err)

		_, err = f.svc.Execute(context.Background(), f.userID, recurring.ID)
		require.NoError(t, err)

		req := f.rentRequest()
		req.Amount = 900
		updated, err := f.svc.Update(context.Background(), f.userID, recurring.ID, req)
		require.NoError(t, err)
		assert.Equal(t, 900.0, updated.Amount)
		assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), updated.NextDueDate)
	})
}

func TestRecurringService_Delete(t *testing.T) {
	f := newRecurringFixture(t)
	recurring, err := f.svc.Create(context.Background(), f.userID, f.rentRequest())
	require.NoError(t, err)

	// executed entries stay in the ledger after the template is deleted
	transaction, err := f.svc.Execute(context.Background(), f.userID, recurring.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.userID, recurring.ID))
	assert.Empty(t, f.store.recurring)
	assert.Contains(t, f.store.transactions, transaction.ID)

	err = f.svc.Delete(context.Background(), f.userID, recurring.ID)
	assert.Error(t, err)
}
