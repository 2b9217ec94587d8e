package integration_tests

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

type TransferTestSuite struct {
	TestSuite
	service *service.LedgerService
	from    *models.Account
	to      *models.Account
}

func (suite *TransferTestSuite) SetupSuite() {
	svc, err := LedgerTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc

	suite.from, err = createTestAccount(svc, "Checking", common.AccountKindOrdinary, 0)
	if err != nil {
		log.Fatalf("Error creating test account: %v", err)
	}
	suite.to, err = createTestAccount(svc, "Savings", common.AccountKindOrdinary, 0)
	if err != nil {
		log.Fatalf("Error creating test account: %v", err)
	}
}

func (suite *TransferTestSuite) TearDownTest() {
	clearTable(suite.service, "entries")
	clearTable(suite.service, "transfers")
	suite.service.DB.Exec("UPDATE accounts SET balance = 0")
}

func (suite *TransferTestSuite) TestTransferCreatesLinkedPair() {
	ctx := context.Background()

	transfer, err := suite.service.CreateTransfer(ctx, service.CreateTransferParams{
		FromAccountID: suite.from.ID,
		ToAccountID:   suite.to.ID,
		Amount:        75,
	})
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), transfer.ExpenseEntryID)
	assert.NotZero(suite.T(), transfer.IncomeEntryID)

	expense, err := suite.service.FindEntry(ctx, transfer.ExpenseEntryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.DirectionExpense, expense.Direction)
	assert.Equal(suite.T(), suite.from.ID, expense.AccountID)
	assert.Equal(suite.T(), transfer.ID, expense.TransferID)

	income, err := suite.service.FindEntry(ctx, transfer.IncomeEntryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.DirectionIncome, income.Direction)
	assert.Equal(suite.T(), suite.to.ID, income.AccountID)
	assert.Equal(suite.T(), transfer.ID, income.TransferID)

	from, _ := suite.service.FindAccount(ctx, suite.from.ID)
	to, _ := suite.service.FindAccount(ctx, suite.to.ID)
	assert.Equal(suite.T(), int64(-7500), from.Balance)
	assert.Equal(suite.T(), int64(7500), to.Balance)
}

func (suite *TransferTestSuite) TestDeletingOneHalfRemovesBoth() {
	ctx := context.Background()

	transfer, err := suite.service.CreateTransfer(ctx, service.CreateTransferParams{
		FromAccountID: suite.from.ID,
		ToAccountID:   suite.to.ID,
		Amount:        75,
	})
	assert.NoError(suite.T(), err)

	err = suite.service.DeleteEntry(ctx, transfer.ExpenseEntryID)
	assert.NoError(suite.T(), err)

	_, err = suite.service.FindEntry(ctx, transfer.ExpenseEntryID)
	assert.ErrorIs(suite.T(), err, ledger.ErrNotFound)
	_, err = suite.service.FindEntry(ctx, transfer.IncomeEntryID)
	assert.ErrorIs(suite.T(), err, ledger.ErrNotFound)
	_, err = suite.service.FindTransfer(ctx, transfer.ID)
	assert.ErrorIs(suite.T(), err, ledger.ErrNotFound)

	from, _ := suite.service.FindAccount(ctx, suite.from.ID)
	to, _ := suite.service.FindAccount(ctx, suite.to.ID)
	assert.Equal(suite.T(), int64(0), from.Balance)
	assert.Equal(suite.T(), int64(0), to.Balance)
}

func (suite *TransferTestSuite) TestDeleteTransferReversesBothBalances() {
	ctx := context.Background()

	transfer, err := suite.service.CreateTransfer(ctx, service.CreateTransferParams{
		FromAccountID: suite.from.ID,
		ToAccountID:   suite.to.ID,
		Amount:        30,
	})
	assert.NoError(suite.T(), err)

	err = suite.service.DeleteTransfer(ctx, transfer.ID)
	assert.NoError(suite.T(), err)

	from, _ := suite.service.FindAccount(ctx, suite.from.ID)
	to, _ := suite.service.FindAccount(ctx, suite.to.ID)
	assert.Equal(suite.T(), int64(0), from.Balance)
	assert.Equal(suite.T(), int64(0), to.Balance)
}

func (suite *TransferTestSuite) TestTransferHalfIgnoresStructuralEdits() {
	ctx := context.Background()

	transfer, err := suite.service.CreateTransfer(ctx, service.CreateTransferParams{
		FromAccountID: suite.from.ID,
		ToAccountID:   suite.to.ID,
		Amount:        75,
	})
	assert.NoError(suite.T(), err)

	// amount and account edits on a transfer half are dropped, the note
	// still goes through
	newAmount := 500.0
	note := "rent split"
	updated, err := suite.service.UpdateEntry(ctx, transfer.ExpenseEntryID, service.UpdateEntryParams{
		Amount: &newAmount,
		Note:   &note,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7500), updated.Amount)
	assert.Equal(suite.T(), note, updated.Note)

	from, _ := suite.service.FindAccount(ctx, suite.from.ID)
	assert.Equal(suite.T(), int64(-7500), from.Balance)
}

func (suite *TransferTestSuite) TestSameAccountTransferRejected() {
	_, err := suite.service.CreateTransfer(context.Background(), service.CreateTransferParams{
		FromAccountID: suite.from.ID,
		ToAccountID:   suite.from.ID,
		Amount:        10,
	})
	assert.ErrorIs(suite.T(), err, ledger.ErrInvalidArgument)
}

func TestTransferTestSuite(t *testing.T) {
	suite.Run(t, new(TransferTestSuite))
}
