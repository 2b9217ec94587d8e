package models

import (
	"time"
)

// Transfer : Transfer Model
//
// A paired construct binding exactly one expense entry (on FromAccountID)
// and one income entry (on ToAccountID). The row and both entries are
// created and deleted atomically; amount/account changes are done by
// delete-and-recreate, never by editing one half.
type Transfer struct {
	ID             int64     `bun:",pk,autoincrement"`
	FromAccountID  int64     `bun:",notnull"`
	FromAccount    *Account  `bun:"rel:belongs-to,join:from_account_id=id"`
	ToAccountID    int64     `bun:",notnull"`
	ToAccount      *Account  `bun:"rel:belongs-to,join:to_account_id=id"`
	ExpenseEntryID int64     `bun:",nullzero"`
	IncomeEntryID  int64     `bun:",nullzero"`
	Amount         int64     `bun:",notnull"`
	Currency       string    `bun:",notnull"`
	OccurredAt     time.Time `bun:",notnull"`
	Note           string    `bun:",nullzero"`
	CreatedAt      time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
