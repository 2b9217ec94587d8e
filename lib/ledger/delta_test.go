package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenderdesk/ledgerhub/common"
)

func TestDeltaOrdinaryAccount(t *testing.T) {
	delta, err := Delta(common.DirectionExpense, common.AccountKindOrdinary, 3000)
	assert.NoError(t, err)
	assert.Equal(t, int64(-3000), delta)

	delta, err = Delta(common.DirectionIncome, common.AccountKindOrdinary, 10000)
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), delta)
}

func TestDeltaRevolvingCreditAccount(t *testing.T) {
	// an expense on a credit card increases the debt
	delta, err := Delta(common.DirectionExpense, common.AccountKindRevolvingCredit, 12000)
	assert.NoError(t, err)
	assert.Equal(t, int64(12000), delta)

	// a payment towards the card decreases the debt
	delta, err = Delta(common.DirectionIncome, common.AccountKindRevolvingCredit, 5000)
	assert.NoError(t, err)
	assert.Equal(t, int64(-5000), delta)
}

func TestDeltaExpenseThenIncomeCancelsOut(t *testing.T) {
	expense, err := Delta(common.DirectionExpense, common.AccountKindRevolvingCredit, 7500)
	assert.NoError(t, err)
	income, err := Delta(common.DirectionIncome, common.AccountKindRevolvingCredit, 7500)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), expense+income)
}

func TestDeltaUnknownKind(t *testing.T) {
	_, err := Delta(common.DirectionExpense, "savings", 100)
	assert.Error(t, err)
}

func TestDeltaUnknownDirection(t *testing.T) {
	_, err := Delta("refund", common.AccountKindOrdinary, 100)
	assert.Error(t, err)
}

func TestReverse(t *testing.T) {
	assert.Equal(t, int64(-3000), Reverse(3000))
	assert.Equal(t, int64(3000), Reverse(-3000))
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, int64(38000), Available(50000, 12000))
	assert.Equal(t, int64(50000), Available(50000, 0))
}
