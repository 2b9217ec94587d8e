package ledger

import (
	"errors"
	"fmt"

	"github.com/tenderdesk/ledgerhub/common"
)

var (
	// ErrNotFound is returned when a referenced account, entry, transfer or
	// category does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed caller input such as a
	// non-positive amount or a same-account transfer.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Delta computes the signed change to an account's stored balance caused
// by an entry of the given direction and amount.
//
// For an ordinary account the balance is cash on hand: expenses decrease
// it, income increases it. For a revolving credit account the balance is
// the amount owed: expenses increase the debt, income (a payment towards
// the card) decreases it.
//
// The switch is exhaustive over account kinds so a new kind fails loudly
// until a sign rule is defined for it.
func Delta(direction, accountKind string, amount int64) (int64, error) {
	switch accountKind {
	case common.AccountKindOrdinary:
		switch direction {
		case common.DirectionExpense:
			return -amount, nil
		case common.DirectionIncome:
			return amount, nil
		}
	case common.AccountKindRevolvingCredit:
		switch direction {
		case common.DirectionExpense:
			return amount, nil
		case common.DirectionIncome:
			return -amount, nil
		}
	default:
		return 0, fmt.Errorf("no balance rule for account kind %q", accountKind)
	}
	return 0, fmt.Errorf("unknown entry direction %q", direction)
}

// Reverse undoes an already-applied delta. Reversal always negates the
// delta computed from the entry's stored direction/amount/account kind,
// it is never recomputed from edited values.
func Reverse(delta int64) int64 {
	return -delta
}

// Available returns the remaining spendable credit on a revolving credit
// account, where balance is the amount currently owed.
func Available(creditLimit, balance int64) int64 {
	return creditLimit - balance
}

// ValidDirection reports whether direction is one of the two entry
// directions.
func ValidDirection(direction string) bool {
	return direction == common.DirectionIncome || direction == common.DirectionExpense
}

// ValidAccountKind reports whether kind is a known account kind.
func ValidAccountKind(kind string) bool {
	return kind == common.AccountKindOrdinary || kind == common.AccountKindRevolvingCredit
}

// ValidCategoryKind reports whether kind is a known category kind.
func ValidCategoryKind(kind string) bool {
	switch kind {
	case common.CategoryKindRegular, common.CategoryKindLoanRepayment, common.CategoryKindCommission:
		return true
	}
	return false
}
