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
	"github.com/uptrace/bun/dialect"
)

func (svc *LedgerService) CreateAccount(ctx context.Context, name, kind, currency string, creditLimitMajor float64) (*models.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", ledger.ErrInvalidArgument)
	}
	if !ledger.ValidAccountKind(kind) {
		return nil, fmt.Errorf("%w: unknown account kind %q", ledger.ErrInvalidArgument, kind)
	}
	if currency == "" {
		currency = svc.Config.DefaultCurrency
	}
	if !ledger.ValidCurrency(currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", ledger.ErrInvalidArgument, currency)
	}

	account := &models.Account{
		Name:     name,
		Kind:     kind,
		Currency: currency,
	}
	if kind == common.AccountKindRevolvingCredit {
		creditLimit := ledger.MinorUnits(creditLimitMajor)
		if creditLimit <= 0 {
			return nil, fmt.Errorf("%w: a revolving credit account needs a positive credit limit", ledger.ErrInvalidArgument)
		}
		account.CreditLimit = creditLimit
	}

	_, err := svc.DB.NewInsert().Model(account).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (svc *LedgerService) FindAccount(ctx context.Context, accountId int64) (*models.Account, error) {
	var account models.Account

	err := svc.DB.NewSelect().Model(&account).Where("id = ?", accountId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", ledger.ErrNotFound, accountId)
		}
		return nil, err
	}
	return &account, nil
}

func (svc *LedgerService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts := []models.Account{}
	err := svc.DB.NewSelect().Model(&accounts).Order("id ASC").Scan(ctx)
	return accounts, err
}

// applyBalanceDelta shifts an account's stored balance by delta as a
// store-side atomic increment. There is no read-modify-write window for
// concurrent operations on the same account to race through.
func (svc *LedgerService) applyBalanceDelta(ctx context.Context, idb bun.IDB, accountId, delta int64) error {
	res, err := idb.NewUpdate().
		Model((*models.Account)(nil)).
		Set("balance = balance + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", accountId).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: account %d", ledger.ErrNotFound, accountId)
	}
	return nil
}

// lockAccount takes a row lock on the account inside the given
// transaction. Callers lock accounts in ascending id order so two
// concurrent transfers touching the same pair cannot deadlock. sqlite
// serializes writers on its own and has no FOR UPDATE.
func (svc *LedgerService) lockAccount(ctx context.Context, tx bun.Tx, accountId int64) (*models.Account, error) {
	var account models.Account
	q := tx.NewSelect().Model(&account).Where("id = ?", accountId).Limit(1)
	if svc.DB.Dialect().Name() == dialect.PG {
		q = q.For("UPDATE")
	}
	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", ledger.ErrNotFound, accountId)
		}
		return nil, err
	}
	return &account, nil
}
