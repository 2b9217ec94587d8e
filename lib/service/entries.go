package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
	"github.com/uptrace/bun"
)

type CreateEntryParams struct {
	AccountID    int64
	CategoryID   int64
	Direction    string
	Amount       float64 // major units, converted to minor units by the service
	Currency     string
	OccurredAt   time.Time
	Note         string
	Counterparty string
}

// UpdateEntryParams carries a partial update; nil fields are left as-is.
type UpdateEntryParams struct {
	AccountID    *int64
	CategoryID   *int64
	Direction    *string
	Amount       *float64 // major units
	Currency     *string
	OccurredAt   *time.Time
	Note         *string
	Counterparty *string
}

func (p *UpdateEntryParams) empty() bool {
	return p.AccountID == nil && p.CategoryID == nil && p.Direction == nil &&
		p.Amount == nil && p.Currency == nil && p.OccurredAt == nil &&
		p.Note == nil && p.Counterparty == nil
}

func (svc *LedgerService) CreateEntry(ctx context.Context, params CreateEntryParams) (*models.Entry, error) {
	amount := ledger.MinorUnits(params.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must round to a positive number of minor units", ledger.ErrInvalidArgument)
	}
	if !ledger.ValidDirection(params.Direction) {
		return nil, fmt.Errorf("%w: unknown direction %q", ledger.ErrInvalidArgument, params.Direction)
	}
	currency := params.Currency
	if currency == "" {
		currency = svc.Config.DefaultCurrency
	}
	if !ledger.ValidCurrency(currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", ledger.ErrInvalidArgument, currency)
	}

	account, err := svc.FindAccount(ctx, params.AccountID)
	if err != nil {
		return nil, err
	}

	categoryName := ""
	if params.CategoryID != 0 {
		category, err := svc.FindCategory(ctx, params.CategoryID)
		if err != nil {
			return nil, err
		}
		categoryName = category.Name
	}

	occurredAt := params.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	delta, err := ledger.Delta(params.Direction, account.Kind, amount)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		AccountID:    account.ID,
		CategoryID:   params.CategoryID,
		Direction:    params.Direction,
		Amount:       amount,
		Currency:     currency,
		OccurredAt:   occurredAt,
		Note:         params.Note,
		Counterparty: params.Counterparty,
	}

	// The entry row and its balance effect land in the same transaction
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return err
		}
		return svc.applyBalanceDelta(ctx, tx, account.ID, delta)
	})
	if err != nil {
		return nil, err
	}

	// Optional enrichment runs detached from the response path; a failure
	// is logged and never rolls back the entry.
	go svc.GenerateEntryEmbedding(entry, categoryName)

	svc.publishEntryEvent(ctx, common.EntryEventCreated, entry)
	return entry, nil
}

func (svc *LedgerService) UpdateEntry(ctx context.Context, entryId int64, params UpdateEntryParams) (*models.Entry, error) {
	if params.empty() {
		return nil, fmt.Errorf("%w: no fields to update", ledger.ErrInvalidArgument)
	}

	entry, err := svc.FindEntry(ctx, entryId)
	if err != nil {
		return nil, err
	}

	// Half of a transfer: account, direction and amount belong to the
	// transfer as a whole and are silently ignored here. Delete and
	// recreate the transfer to change them.
	if entry.TransferID != 0 {
		params.AccountID = nil
		params.Direction = nil
		params.Amount = nil
	}

	oldAccountID := entry.AccountID
	newAccountID := oldAccountID
	if params.AccountID != nil {
		newAccountID = *params.AccountID
	}
	newDirection := entry.Direction
	if params.Direction != nil {
		if !ledger.ValidDirection(*params.Direction) {
			return nil, fmt.Errorf("%w: unknown direction %q", ledger.ErrInvalidArgument, *params.Direction)
		}
		newDirection = *params.Direction
	}
	newAmount := entry.Amount
	if params.Amount != nil {
		newAmount = ledger.MinorUnits(*params.Amount)
		if newAmount <= 0 {
			return nil, fmt.Errorf("%w: amount must round to a positive number of minor units", ledger.ErrInvalidArgument)
		}
	}

	if params.CategoryID != nil && *params.CategoryID != 0 {
		if _, err := svc.FindCategory(ctx, *params.CategoryID); err != nil {
			return nil, err
		}
	}
	if params.Currency != nil && !ledger.ValidCurrency(*params.Currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", ledger.ErrInvalidArgument, *params.Currency)
	}

	balanceChanged := newAccountID != oldAccountID || newDirection != entry.Direction || newAmount != entry.Amount

	var oldDelta, newDelta int64
	if balanceChanged {
		// The reversal uses the entry's stored direction/amount against
		// the old account's kind; the new delta is computed independently
		// against the (possibly different) new account. Never a single
		// diff, the two sides may live on different accounts.
		oldAccount, err := svc.FindAccount(ctx, oldAccountID)
		if err != nil {
			return nil, err
		}
		oldDelta, err = ledger.Delta(entry.Direction, oldAccount.Kind, entry.Amount)
		if err != nil {
			return nil, err
		}
		newAccount := oldAccount
		if newAccountID != oldAccountID {
			newAccount, err = svc.FindAccount(ctx, newAccountID)
			if err != nil {
				return nil, err
			}
		}
		newDelta, err = ledger.Delta(newDirection, newAccount.Kind, newAmount)
		if err != nil {
			return nil, err
		}
	}

	entry.AccountID = newAccountID
	entry.Direction = newDirection
	entry.Amount = newAmount
	if params.CategoryID != nil {
		entry.CategoryID = *params.CategoryID
	}
	if params.Currency != nil {
		entry.Currency = *params.Currency
	}
	if params.OccurredAt != nil {
		entry.OccurredAt = *params.OccurredAt
	}
	if params.Note != nil {
		entry.Note = *params.Note
	}
	if params.Counterparty != nil {
		entry.Counterparty = *params.Counterparty
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if balanceChanged {
			// reverse the old effect first, then apply the new one
			if err := svc.applyBalanceDelta(ctx, tx, oldAccountID, ledger.Reverse(oldDelta)); err != nil {
				return err
			}
			if err := svc.applyBalanceDelta(ctx, tx, newAccountID, newDelta); err != nil {
				return err
			}
		}
		_, err := tx.NewUpdate().Model(entry).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	svc.publishEntryEvent(ctx, common.EntryEventUpdated, entry)
	return entry, nil
}

func (svc *LedgerService) DeleteEntry(ctx context.Context, entryId int64) error {
	entry, err := svc.FindEntry(ctx, entryId)
	if err != nil {
		return err
	}

	// A transfer half never goes alone: the sibling entry and the
	// transfer row are removed in the same operation.
	if entry.TransferID != 0 {
		return svc.deleteTransferPair(ctx, entry)
	}

	// The loan cascade is best effort: a failure is reported but does not
	// block the deletion of the entry itself.
	if entry.CategoryID != 0 {
		category, err := svc.FindCategory(ctx, entry.CategoryID)
		if err != nil {
			svc.Logger.Errorf("Failed to resolve category for entry_id:%v error: %v", entry.ID, err)
		} else if category.Kind == common.CategoryKindLoanRepayment {
			if err := svc.reverseLoanRepayment(ctx, entry); err != nil {
				sentry.CaptureException(err)
				svc.Logger.Errorf("Loan repayment reversal failed for entry_id:%v error: %v", entry.ID, err)
			}
		}
	}

	account, err := svc.FindAccount(ctx, entry.AccountID)
	if err != nil {
		return err
	}
	delta, err := ledger.Delta(entry.Direction, account.Kind, entry.Amount)
	if err != nil {
		return err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.PlanTopUp)(nil)).Where("entry_id = ?", entry.ID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.EntryItem)(nil)).Where("entry_id = ?", entry.ID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model(entry).WherePK().Exec(ctx); err != nil {
			return err
		}
		return svc.applyBalanceDelta(ctx, tx, entry.AccountID, ledger.Reverse(delta))
	})
	if err != nil {
		return err
	}

	svc.publishEntryEvent(ctx, common.EntryEventDeleted, entry)
	return nil
}

func (svc *LedgerService) FindEntry(ctx context.Context, entryId int64) (*models.Entry, error) {
	var entry models.Entry

	err := svc.DB.NewSelect().Model(&entry).Where("entry.id = ?", entryId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %d", ledger.ErrNotFound, entryId)
		}
		return nil, err
	}
	return &entry, nil
}

func (svc *LedgerService) EntriesForAccount(ctx context.Context, accountId int64, limit, offset int) ([]models.Entry, error) {
	entries := []models.Entry{}

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := svc.DB.NewSelect().Model(&entries).Where("account_id = ?", accountId).
		OrderExpr("occurred_at DESC, id DESC").Limit(limit).Offset(offset)
	err := query.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EntryItemsFor returns the line-item detail rows of one entry.
func (svc *LedgerService) EntryItemsFor(ctx context.Context, entryId int64) ([]models.EntryItem, error) {
	items := []models.EntryItem{}
	err := svc.DB.NewSelect().Model(&items).Where("entry_id = ?", entryId).Order("id ASC").Scan(ctx)
	return items, err
}

// AddEntryItems attaches line-item detail rows to an existing entry.
func (svc *LedgerService) AddEntryItems(ctx context.Context, entryId int64, items []models.EntryItem) ([]models.EntryItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items", ledger.ErrInvalidArgument)
	}
	if _, err := svc.FindEntry(ctx, entryId); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].EntryID = entryId
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
		}
	}
	_, err := svc.DB.NewInsert().Model(&items).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return items, nil
}
