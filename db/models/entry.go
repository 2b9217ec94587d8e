package models

import (
	"time"
)

// Entry : Transaction Entry Model
//
// A single-sided money movement (income or expense) against one account.
// Amount is always positive, in minor units; the sign of the balance
// effect is derived from Direction and the account kind. TransferID is
// set when the entry is one half of a transfer; such entries are never
// edited as free-standing income/expense.
type Entry struct {
	ID           int64     `bun:",pk,autoincrement"`
	AccountID    int64     `bun:",notnull"`
	Account      *Account  `bun:"rel:belongs-to,join:account_id=id"`
	CategoryID   int64     `bun:",nullzero"`
	Category     *Category `bun:"rel:belongs-to,join:category_id=id"`
	TransferID   int64     `bun:",nullzero"`
	Direction    string    `bun:",notnull"`
	Amount       int64     `bun:",notnull"`
	Currency     string    `bun:",notnull"`
	OccurredAt   time.Time `bun:",notnull"`
	Note         string    `bun:",nullzero"`
	Counterparty string    `bun:",nullzero"`
	// Embedding holds the JSON-encoded vector produced by the optional
	// enrichment step; empty until (and unless) the generator succeeds.
	Embedding string    `bun:",nullzero"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// EntryItem : line-item detail row attached to an entry, removed together
// with it.
type EntryItem struct {
	ID       int64  `bun:",pk,autoincrement"`
	EntryID  int64  `bun:",notnull"`
	Entry    *Entry `bun:"rel:belongs-to,join:entry_id=id"`
	Name     string `bun:",notnull"`
	Amount   int64  `bun:",notnull"`
	Quantity int64  `bun:",notnull,default:1"`
}
