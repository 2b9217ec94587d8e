package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- make sure a revolving credit account never owes more than its limit
			-- and an ordinary account entry amount is always positive
				CREATE OR REPLACE FUNCTION check_credit_limit()
					RETURNS TRIGGER AS $$
				BEGIN
					IF NEW.amount <= 0
					THEN
						RAISE EXCEPTION 'invalid entry amount [entry_id:%] [amount:%]',
						NEW.id,
						NEW.amount;
					END IF;

					-- LOCK the affected account row before checking the limit
					-- IMPORTANT: lock rows but do not wait for another lock to be released.
					--   Waiting would result in a deadlock because two parallel transactions could try to lock the same rows
					--   NOWAIT reports an error rather than waiting for the lock to be released
					PERFORM 1
					FROM accounts
					WHERE id = NEW.account_id
					FOR UPDATE NOWAIT;

					IF EXISTS (
						SELECT 1
						FROM accounts
						WHERE id = NEW.account_id
						AND kind = 'revolving_credit'
						AND credit_limit > 0
						AND balance > credit_limit
					)
					THEN
						RAISE EXCEPTION 'credit limit exceeded [account_id:%]',
						NEW.account_id;
					END IF;
					RETURN NEW;
				END;
				$$ LANGUAGE plpgsql;

				DROP TRIGGER IF EXISTS check_credit_limit ON entries;

				-- deferrable so the check runs at the end of the transaction,
				-- after the balance increments of the same commit have landed
				CREATE CONSTRAINT TRIGGER check_credit_limit
				AFTER INSERT OR UPDATE ON entries
				DEFERRABLE
				FOR EACH ROW EXECUTE PROCEDURE check_credit_limit();
		`
		_, err := db.ExecContext(ctx, sql)
		return err
	}, nil)
}
