package models

import (
	"time"

	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
)

// Account : Account Model
//
// For an ordinary account Balance is cash on hand. For a revolving credit
// account Balance is the amount owed and CreditLimit is set. Balance is
// mutated only through balance deltas, never written directly by callers.
type Account struct {
	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:",notnull"`
	Kind        string    `bun:",notnull"`
	Currency    string    `bun:",notnull"`
	CreditLimit int64     `bun:",nullzero"`
	Balance     int64     `bun:",notnull,default:0"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Available returns the spendable credit left on a revolving credit
// account. For ordinary accounts it is just the balance.
func (a *Account) Available() int64 {
	if a.Kind == common.AccountKindRevolvingCredit {
		return ledger.Available(a.CreditLimit, a.Balance)
	}
	return a.Balance
}
