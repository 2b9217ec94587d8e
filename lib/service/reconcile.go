package service

import (
	"context"

	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
)

// BalanceDrift reports an account whose stored balance does not equal the
// sum of the deltas of its persisted entries.
type BalanceDrift struct {
	AccountID int64
	Stored    int64
	Computed  int64
}

// ReconcileBalances recomputes every account balance from its entries and
// reports accounts that drifted. With fix set, the stored balance is
// rewritten to the computed value. The invariant being checked: balance
// equals the sum of delta(entry) over all entries currently persisted
// against the account.
func (svc *LedgerService) ReconcileBalances(ctx context.Context, fix bool) ([]BalanceDrift, error) {
	accounts, err := svc.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	drifts := []BalanceDrift{}
	for _, account := range accounts {
		entries := []models.Entry{}
		err := svc.DB.NewSelect().Model(&entries).Where("account_id = ?", account.ID).Scan(ctx)
		if err != nil {
			return nil, err
		}

		var computed int64
		for _, entry := range entries {
			delta, err := ledger.Delta(entry.Direction, account.Kind, entry.Amount)
			if err != nil {
				return nil, err
			}
			computed += delta
		}

		if computed == account.Balance {
			continue
		}
		drift := BalanceDrift{AccountID: account.ID, Stored: account.Balance, Computed: computed}
		drifts = append(drifts, drift)
		svc.Logger.Errorf("Balance drift on account_id:%v stored:%v computed:%v", drift.AccountID, drift.Stored, drift.Computed)

		if fix {
			_, err := svc.DB.NewUpdate().Model((*models.Account)(nil)).
				Set("balance = ?", computed).
				Where("id = ?", account.ID).
				Exec(ctx)
			if err != nil {
				return nil, err
			}
		}
	}
	return drifts, nil
}
