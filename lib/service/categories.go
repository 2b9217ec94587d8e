package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
)

func (svc *LedgerService) CreateCategory(ctx context.Context, name, kind string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ledger.ErrInvalidArgument)
	}
	if !ledger.ValidCategoryKind(kind) {
		return nil, fmt.Errorf("%w: unknown category kind %q", ledger.ErrInvalidArgument, kind)
	}

	category := &models.Category{Name: name, Kind: kind}
	_, err := svc.DB.NewInsert().Model(category).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (svc *LedgerService) FindCategory(ctx context.Context, categoryId int64) (*models.Category, error) {
	var category models.Category

	err := svc.DB.NewSelect().Model(&category).Where("id = ?", categoryId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %d", ledger.ErrNotFound, categoryId)
		}
		return nil, err
	}
	return &category, nil
}

func (svc *LedgerService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := svc.DB.NewSelect().Model(&categories).Order("id ASC").Scan(ctx)
	return categories, err
}

// categoryByKind returns the first category carrying the given kind tag.
func (svc *LedgerService) categoryByKind(ctx context.Context, kind string) (*models.Category, error) {
	var category models.Category

	err := svc.DB.NewSelect().Model(&category).Where("kind = ?", kind).Order("id ASC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no category with kind %q", ledger.ErrNotFound, kind)
		}
		return nil, err
	}
	return &category, nil
}
