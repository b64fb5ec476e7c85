package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
)

// store is the shared backing state of the in-memory fakes
type store struct {
	users             map[uuid.UUID]*models.User
	accounts          map[uuid.UUID]*models.Account
	categories        map[uuid.UUID]*models.Category
	transactions      map[uuid.UUID]*models.Transaction
	purchases         map[uuid.UUID]*models.MonthlyPurchase
	purchasePayments  map[uuid.UUID]*models.PurchasePayment
	loans             map[uuid.UUID]*models.Loan
	loanPayments      map[uuid.UUID]*models.LoanPayment
	principalPayments map[uuid.UUID]*models.LoanPrincipalPayment
	recurring         map[uuid.UUID]*models.RecurringTransaction

	// failure injection
	failPurchasePayments  bool
	failLoanPayments      bool
	failMarkPaid          bool
	failDeleteTransaction bool
	failSetNextDue        bool
}

func newStore() *store {
	return &store{
		users:             make(map[uuid.UUID]*models.User),
		accounts:          make(map[uuid.UUID]*models.Account),
		categories:        make(map[uuid.UUID]*models.Category),
		transactions:      make(map[uuid.UUID]*models.Transaction),
		purchases:         make(map[uuid.UUID]*models.MonthlyPurchase),
		purchasePayments:  make(map[uuid.UUID]*models.PurchasePayment),
		loans:             make(map[uuid.UUID]*models.Loan),
		loanPayments:      make(map[uuid.UUID]*models.LoanPayment),
		principalPayments: make(map[uuid.UUID]*models.LoanPrincipalPayment),
		recurring:         make(map[uuid.UUID]*models.RecurringTransaction),
	}
}

type fakeAccounts struct{ s *store }

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) error {
	a.ID = uuid.New()
	cp := *a
	f.s.accounts[a.ID] = &cp
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	a, ok := f.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Account, error) {
	var out []models.Account
	for _, a := range f.s.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) Update(_ context.Context, a *models.Account) error {
	if _, ok := f.s.accounts[a.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *a
	f.s.accounts[a.ID] = &cp
	return nil
}

func (f *fakeAccounts) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.s.accounts, id)
	return nil
}

type fakeTransactions struct{ s *store }

func (f *fakeTransactions) Create(_ context.Context, t *models.Transaction) error {
	t.ID = uuid.New()
	cp := *t
	f.s.transactions[t.ID] = &cp
	return nil
}

func (f *fakeTransactions) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	t, ok := f.s.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTransactions) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range f.s.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) ListByUserAndPeriod(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range f.s.transactions {
		if t.UserID == userID && !t.Date.Before(from) && t.Date.Before(to) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) Update(_ context.Context, t *models.Transaction) error {
	if _, ok := f.s.transactions[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	f.s.transactions[t.ID] = &cp
	return nil
}

func (f *fakeTransactions) Delete(_ context.Context, id uuid.UUID) error {
	if f.s.failDeleteTransaction {
		return fmt.Errorf("injected transaction delete failure")
	}
	if _, ok := f.s.transactions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.s.transactions, id)
	return nil
}

type fakeRecurring struct{ s *store }

func (f *fakeRecurring) Create(_ context.Context, r *models.RecurringTransaction) error {
	r.ID = uuid.New()
	cp := *r
	f.s.recurring[r.ID] = &cp
	return nil
}

func (f *fakeRecurring) GetByID(_ context.Context, id uuid.UUID) (*models.RecurringTransaction, error) {
	r, ok := f.s.recurring[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecurring) ListByUser(_ context.Context, userID uuid.UUID) ([]models.RecurringTransaction, error) {
	var out []models.RecurringTransaction
	for _, r := range f.s.recurring {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return out, nil
}

func (f *fakeRecurring) Update(_ context.Context, r *models.RecurringTransaction) error {
	if _, ok := f.s.recurring[r.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *r
	f.s.recurring[r.ID] = &cp
	return nil
}

func (f *fakeRecurring) SetNextDueDate(_ context.Context, id uuid.UUID, nextDue time.Time) error {
	if f.s.failSetNextDue {
		return fmt.Errorf("injected advance failure")
	}
	r, ok := f.s.recurring[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.NextDueDate = nextDue
	return nil
}

func (f *fakeRecurring) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.s.recurring[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.s.recurring, id)
	return nil
}

type fakePurchases struct{ s *store }

func (f *fakePurchases) Create(_ context.Context, p *models.MonthlyPurchase) error {
	p.ID = uuid.New()
	cp := *p
	cp.Payments = nil
	f.s.purchases[p.ID] = &cp
	return nil
}

func (f *fakePurchases) CreatePayments(_ context.Context, payments []models.PurchasePayment) error {
	if f.s.failPurchasePayments {
		return fmt.Errorf("injected installment write failure")
	}
	for i := range payments {
		payments[i].ID = uuid.New()
		cp := payments[i]
		f.s.purchasePayments[cp.ID] = &cp
	}
	return nil
}

func (f *fakePurchases) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.s.purchases[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.s.purchases, id)
	return nil
}

func (f *fakePurchases) CascadeDelete(_ context.Context, id uuid.UUID) error {
	for pid, p := range f.s.purchasePayments {
		if p.PurchaseID == id {
			if p.TransactionID != nil {
				delete(f.s.transactions, *p.TransactionID)
			}
			delete(f.s.purchasePayments, pid)
		}
	}
	delete(f.s.purchases, id)
	return nil
}

func (f *fakePurchases) GetByID(_ context.Context, id uuid.UUID) (*models.MonthlyPurchase, error) {
	p, ok := f.s.purchases[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	for _, pay := range f.s.purchasePayments {
		if pay.PurchaseID == id {
			cp.Payments = append(cp.Payments, *pay)
		}
	}
	sort.Slice(cp.Payments, func(i, j int) bool {
		return cp.Payments[i].PaymentNumber < cp.Payments[j].PaymentNumber
	})
	return &cp, nil
}

func (f *fakePurchases) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MonthlyPurchase, error) {
	var out []models.MonthlyPurchase
	for id, p := range f.s.purchases {
		if p.UserID == userID {
			full, _ := f.GetByID(ctx, id)
			out = append(out, *full)
		}
	}
	return out, nil
}

func (f *fakePurchases) Update(_ context.Context, id uuid.UUID, req models.UpdatePurchaseRequest) error {
	p, ok := f.s.purchases[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Description = req.Description
	p.CategoryID = req.CategoryID
	return nil
}

func (f *fakePurchases) GetPayment(_ context.Context, paymentID uuid.UUID) (*models.PurchasePayment, error) {
	p, ok := f.s.purchasePayments[paymentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePurchases) MarkPaymentPaid(_ context.Context, paymentID, transactionID uuid.UUID) error {
	if f.s.failMarkPaid {
		return fmt.Errorf("injected status update failure")
	}
	p, ok := f.s.purchasePayments[paymentID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = models.PaymentStatusPaid
	txID := transactionID
	p.TransactionID = &txID
	return nil
}

func (f *fakePurchases) MarkPaymentPending(_ context.Context, paymentID uuid.UUID) error {
	p, ok := f.s.purchasePayments[paymentID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = models.PaymentStatusPending
	p.TransactionID = nil
	return nil
}

func (f *fakePurchases) ListDueReminders(_ context.Context, by time.Time) ([]models.PaymentReminder, error) {
	var out []models.PaymentReminder
	for _, pay := range f.s.purchasePayments {
		if pay.Status != models.PaymentStatusPending || pay.DueDate.After(by) {
			continue
		}
		purchase := f.s.purchases[pay.PurchaseID]
		user := f.s.users[purchase.UserID]
		out = append(out, models.PaymentReminder{
			UserEmail:   user.Email,
			Description: purchase.Description,
			DueDate:     pay.DueDate,
			Amount:      pay.Amount,
			Overdue:     pay.DueDate.Before(time.Now()),
		})
	}
	return out, nil
}

type fakeLoans struct{ s *store }

func (f *fakeLoans) Create(_ context.Context, l *models.Loan) error {
	l.ID = uuid.New()
	cp := *l
	cp.Payments = nil
	cp.PrincipalPayments = nil
	f.s.loans[l.ID] = &cp
	return nil
}

func (f *fakeLoans) CreatePayments(_ context.Context, payments []models.LoanPayment) error {
	if f.s.failLoanPayments {
		return fmt.Errorf("injected installment write failure")
	}
	for i := range payments {
		payments[i].ID = uuid.New()
		cp := payments[i]
		f.s.loanPayments[cp.ID] = &cp
	}
	return nil
}

func (f *fakeLoans) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.s.loans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.s.loans, id)
	return nil
}

func (f *fakeLoans) CascadeDelete(_ context.Context, id uuid.UUID) error {
	for pid, p := range f.s.loanPayments {
		if p.LoanID == id {
			if p.TransactionID != nil {
				delete(f.s.transactions, *p.TransactionID)
			}
			delete(f.s.loanPayments, pid)
		}
	}
	for pid, p := range f.s.principalPayments {
		if p.LoanID == id {
			if p.TransactionID != nil {
				delete(f.s.transactions, *p.TransactionID)
			}
			delete(f.s.principalPayments, pid)
		}
	}
	delete(f.s.loans, id)
	return nil
}

func (f *fakeLoans) GetByID(_ context.Context, id uuid.UUID) (*models.Loan, error) {
	l, ok := f.s.loans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	for _, pay := range f.s.loanPayments {
		if pay.LoanID == id {
			cp.Payments = append(cp.Payments, *pay)
		}
	}
	sort.Slice(cp.Payments, func(i, j int) bool {
		return cp.Payments[i].PaymentNumber < cp.Payments[j].PaymentNumber
	})
	for _, pp := range f.s.principalPayments {
		if pp.LoanID == id {
			cp.PrincipalPayments = append(cp.PrincipalPayments, *pp)
		}
	}
	return &cp, nil
}

func (f *fakeLoans) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Loan, error) {
	var out []models.Loan
	for id, l := range f.s.loans {
		if l.UserID == userID {
			full, _ := f.GetByID(ctx, id)
			out = append(out, *full)
		}
	}
	return out, nil
}

func (f *fakeLoans) Update(_ context.Context, id uuid.UUID, req models.UpdateLoanRequest) error {
	l, ok := f.s.loans[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.Description = req.Description
	l.IssuingInstitution = req.IssuingInstitution
	l.LateFee = req.LateFee
	return nil
}

func (f *fakeLoans) GetPayment(_ context.Context, paymentID uuid.UUID) (*models.LoanPayment, error) {
	p, ok := f.s.loanPayments[paymentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeLoans) MarkPaymentPaid(_ context.Context, paymentID, transactionID uuid.UUID) error {
	if f.s.failMarkPaid {
		return fmt.Errorf("injected status update failure")
	}
	p, ok := f.s.loanPayments[paymentID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = models.PaymentStatusPaid
	txID := transactionID
	p.TransactionID = &txID
	return nil
}

func (f *fakeLoans) MarkPaymentPending(_ context.Context, paymentID uuid.UUID) error {
	p, ok := f.s.loanPayments[paymentID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = models.PaymentStatusPending
	p.TransactionID = nil
	return nil
}

func (f *fakeLoans) CreatePrincipalPayment(_ context.Context, pp *models.LoanPrincipalPayment) error {
	pp.ID = uuid.New()
	cp := *pp
	f.s.principalPayments[pp.ID] = &cp
	return nil
}

func (f *fakeLoans) GetPrincipalPayment(_ context.Context, id uuid.UUID) (*models.LoanPrincipalPayment, error) {
	pp, ok := f.s.principalPayments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *pp
	return &cp, nil
}

func (f *fakeLoans) CascadeRevertPrincipalPayment(_ context.Context, id uuid.UUID) error {
	pp, ok := f.s.principalPayments[id]
	if !ok {
		return repository.ErrNotFound
	}
	if pp.TransactionID != nil {
		delete(f.s.transactions, *pp.TransactionID)
	}
	delete(f.s.principalPayments, id)
	return nil
}

// Recalculate mirrors the external procedure's contract: covered
// installments become paid with no transaction reference, replaced pending
// installments are regenerated over the reduced balance, prepayments flip
// to applied.
func (f *fakeLoans) Recalculate(ctx context.Context, loanID uuid.UUID, _ time.Time, strategy models.RecalculationStrategy) error {
	loan, err := f.GetByID(ctx, loanID)
	if err != nil {
		return err
	}

	plan, err := PlanRecalculation(loan, strategy)
	if err != nil {
		return err
	}

	for _, id := range plan.CoveredPaymentIDs {
		p := f.s.loanPayments[id]
		p.Status = models.PaymentStatusPaid
		p.TransactionID = nil
	}
	for _, id := range plan.ReplacedPaymentIDs {
		delete(f.s.loanPayments, id)
	}
	for _, inst := range plan.NewInstallments {
		np := &models.LoanPayment{
			ID:               uuid.New(),
			LoanID:           loanID,
			PaymentNumber:    inst.Number,
			DueDate:          inst.DueDate,
			PaymentAmount:    inst.Payment,
			PrincipalAmount:  inst.Principal,
			InterestAmount:   inst.Interest,
			RemainingBalance: inst.RemainingBalance,
			Status:           models.PaymentStatusPending,
		}
		f.s.loanPayments[np.ID] = np
	}
	for id, pp := range f.s.principalPayments {
		if pp.LoanID == loanID && !pp.IsApplied {
			f.s.principalPayments[id].IsApplied = true
		}
	}
	return nil
}

func (f *fakeLoans) ListDueReminders(_ context.Context, by time.Time) ([]models.PaymentReminder, error) {
	var out []models.PaymentReminder
	for _, pay := range f.s.loanPayments {
		if pay.Status != models.PaymentStatusPending || pay.DueDate.After(by) {
			continue
		}
		loan := f.s.loans[pay.LoanID]
		user := f.s.users[loan.UserID]
		out = append(out, models.PaymentReminder{
			UserEmail:   user.Email,
			Description: loan.Description,
			DueDate:     pay.DueDate,
			Amount:      pay.PaymentAmount,
			Overdue:     pay.DueDate.Before(time.Now()),
		})
	}
	return out, nil
}
