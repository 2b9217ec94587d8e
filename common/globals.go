package common

const (
	DirectionIncome  = "income"
	DirectionExpense = "expense"

	AccountKindOrdinary        = "ordinary"
	AccountKindRevolvingCredit = "revolving_credit"

	// Category kinds are assigned once at category creation and drive the
	// deletion cascades. Cascades never match on display names.
	CategoryKindRegular       = "regular"
	CategoryKindLoanRepayment = "loan_repayment"
	CategoryKindCommission    = "commission"

	EntryEventCreated = "entry_created"
	EntryEventUpdated = "entry_updated"
	EntryEventDeleted = "entry_deleted"
)
