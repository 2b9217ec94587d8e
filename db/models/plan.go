package models

import (
	"time"
)

// Plan : Savings Plan Model
type Plan struct {
	ID           int64     `bun:",pk,autoincrement"`
	Name         string    `bun:",notnull"`
	TargetAmount int64     `bun:",notnull"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// PlanTopUp : Plan Top-up Model
//
// Links a transaction entry to the plan it funded. Rows are removed when
// their referencing entry is deleted.
type PlanTopUp struct {
	ID        int64     `bun:",pk,autoincrement"`
	PlanID    int64     `bun:",notnull"`
	Plan      *Plan     `bun:"rel:belongs-to,join:plan_id=id"`
	EntryID   int64     `bun:",notnull"`
	Entry     *Entry    `bun:"rel:belongs-to,join:entry_id=id"`
	Amount    int64     `bun:",notnull"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
