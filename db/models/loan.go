package models

import (
	"time"

	"github.com/uptrace/bun/schema"
)

// Loan : Loan Model
//
// Principal is the amount borrowed, PrincipalPaid the portion repaid so
// far. LastPaymentDate tracks the payment date of the latest remaining
// payment and is recomputed when a payment is reversed.
type Loan struct {
	ID              int64           `bun:",pk,autoincrement"`
	Name            string          `bun:",notnull"`
	Principal       int64           `bun:",notnull"`
	PrincipalPaid   int64           `bun:",notnull,default:0"`
	LastPaymentDate schema.NullTime `bun:",nullzero"`
	CreatedAt       time.Time       `bun:",nullzero,notnull,default:current_timestamp"`
}

// LoanPayment : Loan Payment Model
//
// One repayment of a loan. Amount is the full payment, PrincipalAmount
// the portion that reduced the principal (the rest was interest).
type LoanPayment struct {
	ID              int64     `bun:",pk,autoincrement"`
	LoanID          int64     `bun:",notnull"`
	Loan            *Loan     `bun:"rel:belongs-to,join:loan_id=id"`
	Amount          int64     `bun:",notnull"`
	PrincipalAmount int64     `bun:",notnull"`
	PaymentDate     time.Time `bun:",notnull"`
	CreatedAt       time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
