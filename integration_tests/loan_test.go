package integration_tests

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

type LoanTestSuite struct {
	TestSuite
	service *service.LedgerService
	account *models.Account
}

func (suite *LoanTestSuite) SetupSuite() {
	svc, err := LedgerTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc

	suite.account, err = createTestAccount(svc, "Salary account", common.AccountKindOrdinary, 0)
	if err != nil {
		log.Fatalf("Error creating test account: %v", err)
	}
	_, _, _, err = createLedgerCategories(svc)
	if err != nil {
		log.Fatalf("Error creating test categories: %v", err)
	}
}

func (suite *LoanTestSuite) TearDownTest() {
	clearTable(suite.service, "entries")
	clearTable(suite.service, "loan_payments")
	clearTable(suite.service, "loans")
	suite.service.DB.Exec("UPDATE accounts SET balance = 0")
}

func (suite *LoanTestSuite) TestRecordLoanPayment() {
	ctx := context.Background()

	loan, err := suite.service.CreateLoan(ctx, "Car loan", 5000)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(500000), loan.Principal)

	paidAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	payment, err := suite.service.RecordLoanPayment(ctx, service.RecordLoanPaymentParams{
		LoanID:          loan.ID,
		AccountID:       suite.account.ID,
		Amount:          150,
		PrincipalAmount: 120,
		OccurredAt:      paidAt,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(15000), payment.Amount)
	assert.Equal(suite.T(), int64(12000), payment.PrincipalAmount)

	loan, err = suite.service.FindLoan(ctx, loan.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(12000), loan.PrincipalPaid)
	assert.True(suite.T(), loan.LastPaymentDate.Time.Equal(paidAt))

	account, _ := suite.service.FindAccount(ctx, suite.account.ID)
	assert.Equal(suite.T(), int64(-15000), account.Balance)
}

func (suite *LoanTestSuite) TestDeletingRepaymentReversesCascade() {
	ctx := context.Background()

	loan, err := suite.service.CreateLoan(ctx, "Mortgage", 100000)
	assert.NoError(suite.T(), err)

	paidAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = suite.service.RecordLoanPayment(ctx, service.RecordLoanPaymentParams{
		LoanID:           loan.ID,
		AccountID:        suite.account.ID,
		Amount:           150,
		PrincipalAmount:  120,
		CommissionAmount: 5,
		OccurredAt:       paidAt,
	})
	assert.NoError(suite.T(), err)

	// repayment plus its commission entry
	entries, err := suite.service.EntriesForAccount(ctx, suite.account.ID, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 2)

	account, _ := suite.service.FindAccount(ctx, suite.account.ID)
	assert.Equal(suite.T(), int64(-15500), account.Balance)

	var repayment models.Entry
	for _, entry := range entries {
		if entry.Amount == 15000 {
			repayment = entry
		}
	}
	assert.NotZero(suite.T(), repayment.ID)

	err = suite.service.DeleteEntry(ctx, repayment.ID)
	assert.NoError(suite.T(), err)

	// payment row gone, principal restored, date cleared
	payments, err := suite.service.LoanPaymentsFor(ctx, loan.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), payments, 0)

	loan, err = suite.service.FindLoan(ctx, loan.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), loan.PrincipalPaid)
	assert.True(suite.T(), loan.LastPaymentDate.Time.IsZero())

	// the commission sibling went with it, both balance effects reversed
	entries, err = suite.service.EntriesForAccount(ctx, suite.account.ID, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 0)

	account, _ = suite.service.FindAccount(ctx, suite.account.ID)
	assert.Equal(suite.T(), int64(0), account.Balance)
}

func (suite *LoanTestSuite) TestLastPaymentDateRecomputedOnReversal() {
	ctx := context.Background()

	loan, err := suite.service.CreateLoan(ctx, "Mortgage", 100000)
	assert.NoError(suite.T(), err)

	february := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	march := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err = suite.service.RecordLoanPayment(ctx, service.RecordLoanPaymentParams{
		LoanID:          loan.ID,
		AccountID:       suite.account.ID,
		Amount:          100,
		PrincipalAmount: 80,
		OccurredAt:      february,
	})
	assert.NoError(suite.T(), err)
	_, err = suite.service.RecordLoanPayment(ctx, service.RecordLoanPaymentParams{
		LoanID:          loan.ID,
		AccountID:       suite.account.ID,
		Amount:          150,
		PrincipalAmount: 120,
		OccurredAt:      march,
	})
	assert.NoError(suite.T(), err)

	entries, err := suite.service.EntriesForAccount(ctx, suite.account.ID, 10, 0)
	assert.NoError(suite.T(), err)
	var marchEntry models.Entry
	for _, entry := range entries {
		if entry.Amount == 15000 {
			marchEntry = entry
		}
	}

	err = suite.service.DeleteEntry(ctx, marchEntry.ID)
	assert.NoError(suite.T(), err)

	loan, err = suite.service.FindLoan(ctx, loan.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(8000), loan.PrincipalPaid)
	assert.True(suite.T(), loan.LastPaymentDate.Time.Equal(february))
}

func (suite *LoanTestSuite) TestAmbiguousMatchReversesLatestPayment() {
	ctx := context.Background()

	loan, err := suite.service.CreateLoan(ctx, "Mortgage", 100000)
	assert.NoError(suite.T(), err)

	paidAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	// two payments with the same amount on the same day
	_, err = suite.service.RecordLoanPayment(ctx, service.RecordLoanPaymentParams{
		LoanID:          loan.ID,
		AccountID:       suite.account.ID,
		Amount:          100,
		PrincipalAmount: 60,
		OccurredAt:      paidAt,
	})
	assert.NoError(suite.T(), err)
	second, err := suite.service.RecordLoanPayment(ctx, service.RecordLoanPaymentParams{
		LoanID:          loan.ID,
		AccountID:       suite.account.ID,
		Amount:          100,
		PrincipalAmount: 90,
		OccurredAt:      paidAt.Add(2 * time.Hour),
	})
	assert.NoError(suite.T(), err)

	entries, err := suite.service.EntriesForAccount(ctx, suite.account.ID, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 2)

	// deleting either entry resolves to the most recently inserted payment
	err = suite.service.DeleteEntry(ctx, entries[1].ID)
	assert.NoError(suite.T(), err)

	payments, err := suite.service.LoanPaymentsFor(ctx, loan.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), payments, 1)
	assert.NotEqual(suite.T(), second.ID, payments[0].ID)
	assert.Equal(suite.T(), int64(6000), payments[0].PrincipalAmount)

	loan, err = suite.service.FindLoan(ctx, loan.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(6000), loan.PrincipalPaid)
}

func TestLoanTestSuite(t *testing.T) {
	suite.Run(t, new(LoanTestSuite))
}
