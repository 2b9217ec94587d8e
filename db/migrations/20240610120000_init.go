package migrations

import (
	"context"

	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/uptrace/bun"
)

// ordered so that foreign keys resolve on create and drop
var initModels = []interface{}{
	(*models.Account)(nil),
	(*models.Category)(nil),
	(*models.Transfer)(nil),
	(*models.Entry)(nil),
	(*models.EntryItem)(nil),
	(*models.Loan)(nil),
	(*models.LoanPayment)(nil),
	(*models.Plan)(nil),
	(*models.PlanTopUp)(nil),
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range initModels {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().WithForeignKeys().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for i := len(initModels) - 1; i >= 0; i-- {
			if _, err := db.NewDropTable().Model(initModels[i]).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
