package integration_tests

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db"
	"github.com/tenderdesk/ledgerhub/db/migrations"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/logging"
	"github.com/tenderdesk/ledgerhub/lib/service"
	"github.com/uptrace/bun/migrate"
)

// LedgerTestServiceInit spins up a service against a private in-memory
// sqlite database, so every suite starts from a clean slate.
func LedgerTestServiceInit() (svc *service.LedgerService, err error) {
	c := &service.Config{
		DatabaseUri:             "file::memory:",
		DatabaseMaxConns:        1,
		DatabaseMaxIdleConns:    1,
		DatabaseConnMaxLifetime: 10,
		DefaultCurrency:         "RUB",
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger := logging.Logger(c.LogFilePath)
	svc = &service.LedgerService{
		Config:      c,
		DB:          dbConn,
		Logger:      logger,
		EntryPubSub: service.NewPubsub(),
	}
	return svc, nil
}

func clearTable(svc *service.LedgerService, tableName string) error {
	_, err := svc.DB.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	return err
}

func createTestAccount(svc *service.LedgerService, name, kind string, creditLimitMajor float64) (*models.Account, error) {
	return svc.CreateAccount(context.Background(), name, kind, "RUB", creditLimitMajor)
}

func createLedgerCategories(svc *service.LedgerService) (regular, repayment, commission *models.Category, err error) {
	ctx := context.Background()
	regular, err = svc.CreateCategory(ctx, "Groceries", common.CategoryKindRegular)
	if err != nil {
		return
	}
	repayment, err = svc.CreateCategory(ctx, "Loan repayments", common.CategoryKindLoanRepayment)
	if err != nil {
		return
	}
	commission, err = svc.CreateCategory(ctx, "Bank commissions", common.CategoryKindCommission)
	return
}

type TestSuite struct {
	suite.Suite
	echo *echo.Echo
}
