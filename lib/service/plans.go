package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
)

func (svc *LedgerService) CreatePlan(ctx context.Context, name string, targetMajor float64) (*models.Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ledger.ErrInvalidArgument)
	}
	target := ledger.MinorUnits(targetMajor)
	if target <= 0 {
		return nil, fmt.Errorf("%w: target must round to a positive number of minor units", ledger.ErrInvalidArgument)
	}
	plan := &models.Plan{Name: name, TargetAmount: target}
	_, err := svc.DB.NewInsert().Model(plan).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (svc *LedgerService) FindPlan(ctx context.Context, planId int64) (*models.Plan, error) {
	var plan models.Plan

	err := svc.DB.NewSelect().Model(&plan).Where("id = ?", planId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: plan %d", ledger.ErrNotFound, planId)
		}
		return nil, err
	}
	return &plan, nil
}

// RecordPlanTopUp links an existing entry to a plan it funded. The link
// row references the entry by id, so entry deletion can cascade without
// any amount/date matching.
func (svc *LedgerService) RecordPlanTopUp(ctx context.Context, planId, entryId int64) (*models.PlanTopUp, error) {
	plan, err := svc.FindPlan(ctx, planId)
	if err != nil {
		return nil, err
	}
	entry, err := svc.FindEntry(ctx, entryId)
	if err != nil {
		return nil, err
	}

	topUp := &models.PlanTopUp{
		PlanID:  plan.ID,
		EntryID: entry.ID,
		Amount:  entry.Amount,
	}
	_, err = svc.DB.NewInsert().Model(topUp).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return topUp, nil
}

// PlanTopUpsFor returns the top-ups recorded against a plan.
func (svc *LedgerService) PlanTopUpsFor(ctx context.Context, planId int64) ([]models.PlanTopUp, error) {
	topUps := []models.PlanTopUp{}
	err := svc.DB.NewSelect().Model(&topUps).Where("plan_id = ?", planId).Order("id ASC").Scan(ctx)
	return topUps, err
}
