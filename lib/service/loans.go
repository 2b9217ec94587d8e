package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

func (svc *LedgerService) CreateLoan(ctx context.Context, name string, principalMajor float64) (*models.Loan, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: loan name is required", ledger.ErrInvalidArgument)
	}
	principal := ledger.MinorUnits(principalMajor)
	if principal <= 0 {
		return nil, fmt.Errorf("%w: principal must round to a positive number of minor units", ledger.ErrInvalidArgument)
	}
	loan := &models.Loan{Name: name, Principal: principal}
	_, err := svc.DB.NewInsert().Model(loan).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (svc *LedgerService) FindLoan(ctx context.Context, loanId int64) (*models.Loan, error) {
	var loan models.Loan

	err := svc.DB.NewSelect().Model(&loan).Where("id = ?", loanId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: loan %d", ledger.ErrNotFound, loanId)
		}
		return nil, err
	}
	return &loan, nil
}

type RecordLoanPaymentParams struct {
	LoanID           int64
	AccountID        int64
	Amount           float64 // full payment, major units
	PrincipalAmount  float64 // portion reducing the principal, major units
	CommissionAmount float64 // optional bank commission, major units; 0 means none
	OccurredAt       time.Time
	Counterparty     string
}

// RecordLoanPayment books one loan repayment: a repayment entry on the
// paying account, a loan payment row carrying the principal/interest
// split, and optionally a commission entry sharing the repayment's
// counterparty and timestamp. These are the records the deletion cascade
// later reverses.
func (svc *LedgerService) RecordLoanPayment(ctx context.Context, params RecordLoanPaymentParams) (*models.LoanPayment, error) {
	loan, err := svc.FindLoan(ctx, params.LoanID)
	if err != nil {
		return nil, err
	}
	principal := ledger.MinorUnits(params.PrincipalAmount)
	if principal < 0 || principal > ledger.MinorUnits(params.Amount) {
		return nil, fmt.Errorf("%w: principal portion cannot be negative or exceed the payment", ledger.ErrInvalidArgument)
	}
	repaymentCategory, err := svc.categoryByKind(ctx, common.CategoryKindLoanRepayment)
	if err != nil {
		return nil, fmt.Errorf("%w: no loan repayment category configured", ledger.ErrInvalidArgument)
	}

	counterparty := params.Counterparty
	if counterparty == "" {
		counterparty = loan.Name
	}

	entry, err := svc.CreateEntry(ctx, CreateEntryParams{
		AccountID:    params.AccountID,
		CategoryID:   repaymentCategory.ID,
		Direction:    common.DirectionExpense,
		Amount:       params.Amount,
		OccurredAt:   params.OccurredAt,
		Counterparty: counterparty,
		Note:         fmt.Sprintf("repayment of %s", loan.Name),
	})
	if err != nil {
		return nil, err
	}

	payment := &models.LoanPayment{
		LoanID:          loan.ID,
		Amount:          entry.Amount,
		PrincipalAmount: principal,
		PaymentDate:     entry.OccurredAt,
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(payment).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().Model((*models.Loan)(nil)).
			Set("principal_paid = principal_paid + ?", principal).
			Set("last_payment_date = ?", entry.OccurredAt).
			Where("id = ?", loan.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if commission := ledger.MinorUnits(params.CommissionAmount); commission > 0 {
		commissionCategory, err := svc.categoryByKind(ctx, common.CategoryKindCommission)
		if err != nil {
			return nil, fmt.Errorf("%w: no commission category configured", ledger.ErrInvalidArgument)
		}
		_, err = svc.CreateEntry(ctx, CreateEntryParams{
			AccountID:    params.AccountID,
			CategoryID:   commissionCategory.ID,
			Direction:    common.DirectionExpense,
			Amount:       params.CommissionAmount,
			OccurredAt:   entry.OccurredAt,
			Counterparty: counterparty,
			Note:         fmt.Sprintf("commission for %s", loan.Name),
		})
		if err != nil {
			return nil, err
		}
	}

	return payment, nil
}

// reverseLoanRepayment undoes the loan bookkeeping of a repayment entry
// that is about to be deleted: subtract the matched payment's principal
// (floored at zero), drop the payment row, recompute the loan's last
// payment date and delete the sibling commission entry if one exists.
//
// The payment is correlated by amount plus calendar date because the
// source data carries no direct link from entry to payment. When several
// payments match, the most recently inserted one wins. New writes should
// prefer a direct reference (as plan top-ups have) over this matching.
func (svc *LedgerService) reverseLoanRepayment(ctx context.Context, entry *models.Entry) error {
	candidates := []models.LoanPayment{}
	err := svc.DB.NewSelect().Model(&candidates).Where("amount = ?", entry.Amount).Order("id ASC").Scan(ctx)
	if err != nil {
		return err
	}

	var payment *models.LoanPayment
	for i := range candidates {
		if ledger.SameDay(candidates[i].PaymentDate, entry.OccurredAt) {
			payment = &candidates[i]
		}
	}
	if payment == nil {
		return fmt.Errorf("no loan payment matches entry %d (amount %d on %s)", entry.ID, entry.Amount, entry.OccurredAt.Format("2006-01-02"))
	}

	loan, err := svc.FindLoan(ctx, payment.LoanID)
	if err != nil {
		return err
	}
	newPaid := loan.PrincipalPaid - payment.PrincipalAmount
	if newPaid < 0 {
		newPaid = 0
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model(payment).WherePK().Exec(ctx); err != nil {
			return err
		}

		// last payment date becomes that of the latest remaining payment
		var latest models.LoanPayment
		lastPaymentDate := schema.NullTime{}
		err := tx.NewSelect().Model(&latest).Where("loan_id = ?", loan.ID).
			OrderExpr("payment_date DESC, id DESC").Limit(1).Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil {
			lastPaymentDate = schema.NullTime{Time: latest.PaymentDate}
		}

		_, err = tx.NewUpdate().Model((*models.Loan)(nil)).
			Set("principal_paid = ?", newPaid).
			Set("last_payment_date = ?", lastPaymentDate).
			Where("id = ?", loan.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	// The commission booked with the same repayment goes too. Deleting it
	// through the normal path reverses its own balance effect; nothing is
	// duplicated here.
	sibling, err := svc.findCommissionSibling(ctx, entry)
	if err != nil {
		return err
	}
	if sibling != nil {
		return svc.DeleteEntry(ctx, sibling.ID)
	}
	return nil
}

// findCommissionSibling looks for another entry booked with the same
// counterparty and timestamp whose category is tagged as commission.
func (svc *LedgerService) findCommissionSibling(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	if entry.Counterparty == "" {
		return nil, nil
	}
	var sibling models.Entry
	err := svc.DB.NewSelect().Model(&sibling).
		Join("JOIN categories AS category ON category.id = entry.category_id").
		Where("entry.id != ?", entry.ID).
		Where("entry.counterparty = ?", entry.Counterparty).
		Where("entry.occurred_at = ?", entry.OccurredAt).
		Where("category.kind = ?", common.CategoryKindCommission).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sibling, nil
}

// LoanPaymentsFor returns a loan's payments, newest first.
func (svc *LedgerService) LoanPaymentsFor(ctx context.Context, loanId int64) ([]models.LoanPayment, error) {
	payments := []models.LoanPayment{}
	err := svc.DB.NewSelect().Model(&payments).Where("loan_id = ?", loanId).
		OrderExpr("payment_date DESC, id DESC").Scan(ctx)
	return payments, err
}
