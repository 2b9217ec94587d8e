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
)

type CreateTransferParams struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        float64 // major units
	Currency      string
	OccurredAt    time.Time
	Note          string
}

// CreateTransfer creates the transfer row, its expense entry and its
// income entry as one atomic commit. A partial transfer (one entry
// without its sibling, or entries without their balance effects) can
// never be observed. Both account rows are locked in ascending id order
// for the duration of the transaction.
func (svc *LedgerService) CreateTransfer(ctx context.Context, params CreateTransferParams) (*models.Transfer, error) {
	if params.FromAccountID == params.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer between an account and itself", ledger.ErrInvalidArgument)
	}
	amount := ledger.MinorUnits(params.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must round to a positive number of minor units", ledger.ErrInvalidArgument)
	}
	currency := params.Currency
	if currency == "" {
		currency = svc.Config.DefaultCurrency
	}
	if !ledger.ValidCurrency(currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", ledger.ErrInvalidArgument, currency)
	}
	occurredAt := params.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	transfer := &models.Transfer{
		FromAccountID: params.FromAccountID,
		ToAccountID:   params.ToAccountID,
		Amount:        amount,
		Currency:      currency,
		OccurredAt:    occurredAt,
		Note:          params.Note,
	}
	var expenseEntry, incomeEntry *models.Entry

	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		fromAccount, toAccount, err := svc.lockAccountPair(ctx, tx, params.FromAccountID, params.ToAccountID)
		if err != nil {
			return err
		}

		expenseDelta, err := ledger.Delta(common.DirectionExpense, fromAccount.Kind, amount)
		if err != nil {
			return err
		}
		incomeDelta, err := ledger.Delta(common.DirectionIncome, toAccount.Kind, amount)
		if err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(transfer).Exec(ctx); err != nil {
			return err
		}

		expenseEntry = &models.Entry{
			AccountID:  fromAccount.ID,
			TransferID: transfer.ID,
			Direction:  common.DirectionExpense,
			Amount:     amount,
			Currency:   currency,
			OccurredAt: occurredAt,
			Note:       params.Note,
		}
		incomeEntry = &models.Entry{
			AccountID:  toAccount.ID,
			TransferID: transfer.ID,
			Direction:  common.DirectionIncome,
			Amount:     amount,
			Currency:   currency,
			OccurredAt: occurredAt,
			Note:       params.Note,
		}
		if _, err := tx.NewInsert().Model(expenseEntry).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(incomeEntry).Exec(ctx); err != nil {
			return err
		}

		transfer.ExpenseEntryID = expenseEntry.ID
		transfer.IncomeEntryID = incomeEntry.ID
		if _, err := tx.NewUpdate().Model(transfer).WherePK().Exec(ctx); err != nil {
			return err
		}

		if err := svc.applyBalanceDelta(ctx, tx, fromAccount.ID, expenseDelta); err != nil {
			return err
		}
		return svc.applyBalanceDelta(ctx, tx, toAccount.ID, incomeDelta)
	})
	if err != nil {
		return nil, err
	}

	svc.publishEntryEvent(ctx, common.EntryEventCreated, expenseEntry)
	svc.publishEntryEvent(ctx, common.EntryEventCreated, incomeEntry)
	return transfer, nil
}

func (svc *LedgerService) FindTransfer(ctx context.Context, transferId int64) (*models.Transfer, error) {
	var transfer models.Transfer

	err := svc.DB.NewSelect().Model(&transfer).Where("id = ?", transferId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: transfer %d", ledger.ErrNotFound, transferId)
		}
		return nil, err
	}
	return &transfer, nil
}

// DeleteTransfer removes the transfer and both of its entries, reversing
// both balance effects, as one atomic operation.
func (svc *LedgerService) DeleteTransfer(ctx context.Context, transferId int64) error {
	transfer, err := svc.FindTransfer(ctx, transferId)
	if err != nil {
		return err
	}
	var entry models.Entry
	err = svc.DB.NewSelect().Model(&entry).Where("transfer_id = ?", transfer.ID).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: entries of transfer %d", ledger.ErrNotFound, transferId)
		}
		return err
	}
	return svc.deleteTransferPair(ctx, &entry)
}

// deleteTransferPair deletes both halves of the transfer the given entry
// belongs to, plus the transfer row, and reverses the balance effect on
// both accounts. Invoked from DeleteEntry with either half.
func (svc *LedgerService) deleteTransferPair(ctx context.Context, entry *models.Entry) error {
	transfer, err := svc.FindTransfer(ctx, entry.TransferID)
	if err != nil {
		return err
	}

	entries := []models.Entry{}
	err = svc.DB.NewSelect().Model(&entries).Where("transfer_id = ?", transfer.ID).Order("id ASC").Scan(ctx)
	if err != nil {
		return err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		fromAccount, toAccount, err := svc.lockAccountPair(ctx, tx, transfer.FromAccountID, transfer.ToAccountID)
		if err != nil {
			return err
		}
		kinds := map[int64]string{fromAccount.ID: fromAccount.Kind, toAccount.ID: toAccount.Kind}

		for i := range entries {
			e := &entries[i]
			delta, err := ledger.Delta(e.Direction, kinds[e.AccountID], e.Amount)
			if err != nil {
				return err
			}
			if _, err := tx.NewDelete().Model((*models.PlanTopUp)(nil)).Where("entry_id = ?", e.ID).Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewDelete().Model((*models.EntryItem)(nil)).Where("entry_id = ?", e.ID).Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewDelete().Model(e).WherePK().Exec(ctx); err != nil {
				return err
			}
			if err := svc.applyBalanceDelta(ctx, tx, e.AccountID, ledger.Reverse(delta)); err != nil {
				return err
			}
		}

		_, err = tx.NewDelete().Model(transfer).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	for i := range entries {
		svc.publishEntryEvent(ctx, common.EntryEventDeleted, &entries[i])
	}
	return nil
}

// lockAccountPair locks both accounts of a transfer in ascending id order
// so concurrent transfers over the same pair cannot deadlock, and returns
// them as (from, to).
func (svc *LedgerService) lockAccountPair(ctx context.Context, tx bun.Tx, fromAccountId, toAccountId int64) (*models.Account, *models.Account, error) {
	firstId, secondId := fromAccountId, toAccountId
	if firstId > secondId {
		firstId, secondId = secondId, firstId
	}
	first, err := svc.lockAccount(ctx, tx, firstId)
	if err != nil {
		return nil, nil, err
	}
	second, err := svc.lockAccount(ctx, tx, secondId)
	if err != nil {
		return nil, nil, err
	}
	if first.ID == fromAccountId {
		return first, second, nil
	}
	return second, first, nil
}
