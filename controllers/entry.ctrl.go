package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

// EntryController : Entry controller struct
type EntryController struct {
	svc *service.LedgerService
}

func NewEntryController(svc *service.LedgerService) *EntryController {
	return &EntryController{svc: svc}
}

type AddEntryRequestBody struct {
	AccountID    int64   `json:"account_id" validate:"required"`
	CategoryID   int64   `json:"category_id"`
	Direction    string  `json:"direction" validate:"required,oneof=income expense"`
	Amount       float64 `json:"amount" validate:"required"`
	Currency     string  `json:"currency" validate:"omitempty,len=3"`
	OccurredAt   string  `json:"occurred_at"`
	Note         string  `json:"note"`
	Counterparty string  `json:"counterparty"`
}

type UpdateEntryRequestBody struct {
	AccountID    *int64   `json:"account_id"`
	CategoryID   *int64   `json:"category_id"`
	Direction    *string  `json:"direction" validate:"omitempty,oneof=income expense"`
	Amount       *float64 `json:"amount"`
	Currency     *string  `json:"currency" validate:"omitempty,len=3"`
	OccurredAt   *string  `json:"occurred_at"`
	Note         *string  `json:"note"`
	Counterparty *string  `json:"counterparty"`
}

type EntryResponse struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	CategoryID   int64     `json:"category_id,omitempty"`
	TransferID   int64     `json:"transfer_id,omitempty"`
	Direction    string    `json:"direction"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	OccurredAt   time.Time `json:"occurred_at"`
	Note         string    `json:"note,omitempty"`
	Counterparty string    `json:"counterparty,omitempty"`
}

func entryResponse(entry *models.Entry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		AccountID:    entry.AccountID,
		CategoryID:   entry.CategoryID,
		TransferID:   entry.TransferID,
		Direction:    entry.Direction,
		Amount:       entry.Amount,
		Currency:     entry.Currency,
		OccurredAt:   entry.OccurredAt,
		Note:         entry.Note,
		Counterparty: entry.Counterparty,
	}
}

func (controller *EntryController) AddEntry(c echo.Context) error {
	var body AddEntryRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create entry request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create entry request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	params := service.CreateEntryParams{
		AccountID:    body.AccountID,
		CategoryID:   body.CategoryID,
		Direction:    body.Direction,
		Amount:       body.Amount,
		Currency:     body.Currency,
		Note:         body.Note,
		Counterparty: body.Counterparty,
	}
	if body.OccurredAt != "" {
		occurredAt, err := ledger.ParseOccurredAt(body.OccurredAt)
		if err != nil {
			c.Logger().Errorf("Failed to parse occurred_at: %v", err)
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		params.OccurredAt = occurredAt
	}

	entry, err := controller.svc.CreateEntry(c.Request().Context(), params)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

func (controller *EntryController) UpdateEntry(c echo.Context) error {
	entryId, err := paramID(c, "entry_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body UpdateEntryRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update entry request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid update entry request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	params := service.UpdateEntryParams{
		AccountID:    body.AccountID,
		CategoryID:   body.CategoryID,
		Direction:    body.Direction,
		Amount:       body.Amount,
		Currency:     body.Currency,
		Note:         body.Note,
		Counterparty: body.Counterparty,
	}
	if body.OccurredAt != nil {
		occurredAt, err := ledger.ParseOccurredAt(*body.OccurredAt)
		if err != nil {
			c.Logger().Errorf("Failed to parse occurred_at: %v", err)
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		params.OccurredAt = &occurredAt
	}

	entry, err := controller.svc.UpdateEntry(c.Request().Context(), entryId, params)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

func (controller *EntryController) DeleteEntry(c echo.Context) error {
	entryId, err := paramID(c, "entry_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.DeleteEntry(c.Request().Context(), entryId); err != nil {
		return responses.ServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (controller *EntryController) GetEntry(c echo.Context) error {
	entryId, err := paramID(c, "entry_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	entry, err := controller.svc.FindEntry(c.Request().Context(), entryId)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entryResponse(entry))
}

func (controller *EntryController) GetEntries(c echo.Context) error {
	accountId, err := paramID(c, "account_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	entries, err := controller.svc.EntriesForAccount(c.Request().Context(), accountId, limit, offset)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	response := make([]EntryResponse, len(entries))
	for i := range entries {
		response[i] = entryResponse(&entries[i])
	}
	return c.JSON(http.StatusOK, response)
}

func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
