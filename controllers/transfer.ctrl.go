package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

// TransferController : Transfer controller struct
type TransferController struct {
	svc *service.LedgerService
}

func NewTransferController(svc *service.LedgerService) *TransferController {
	return &TransferController{svc: svc}
}

type CreateTransferRequestBody struct {
	FromAccountID int64   `json:"from_account_id" validate:"required"`
	ToAccountID   int64   `json:"to_account_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	OccurredAt    string  `json:"occurred_at"`
	Note          string  `json:"note"`
}

type TransferResponse struct {
	ID             int64     `json:"id"`
	FromAccountID  int64     `json:"from_account_id"`
	ToAccountID    int64     `json:"to_account_id"`
	ExpenseEntryID int64     `json:"expense_entry_id"`
	IncomeEntryID  int64     `json:"income_entry_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	OccurredAt     time.Time `json:"occurred_at"`
	Note           string    `json:"note,omitempty"`
}

func transferResponse(transfer *models.Transfer) TransferResponse {
	return TransferResponse{
		ID:             transfer.ID,
		FromAccountID:  transfer.FromAccountID,
		ToAccountID:    transfer.ToAccountID,
		ExpenseEntryID: transfer.ExpenseEntryID,
		IncomeEntryID:  transfer.IncomeEntryID,
		Amount:         transfer.Amount,
		Currency:       transfer.Currency,
		OccurredAt:     transfer.OccurredAt,
		Note:           transfer.Note,
	}
}

func (controller *TransferController) CreateTransfer(c echo.Context) error {
	var body CreateTransferRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create transfer request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create transfer request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if body.FromAccountID == body.ToAccountID {
		return c.JSON(http.StatusBadRequest, responses.SameAccountTransferError)
	}

	params := service.CreateTransferParams{
		FromAccountID: body.FromAccountID,
		ToAccountID:   body.ToAccountID,
		Amount:        body.Amount,
		Currency:      body.Currency,
		Note:          body.Note,
	}
	if body.OccurredAt != "" {
		occurredAt, err := ledger.ParseOccurredAt(body.OccurredAt)
		if err != nil {
			c.Logger().Errorf("Failed to parse occurred_at: %v", err)
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		params.OccurredAt = occurredAt
	}

	transfer, err := controller.svc.CreateTransfer(c.Request().Context(), params)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, transferResponse(transfer))
}

func (controller *TransferController) GetTransfer(c echo.Context) error {
	transferId, err := paramID(c, "transfer_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	transfer, err := controller.svc.FindTransfer(c.Request().Context(), transferId)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, transferResponse(transfer))
}

func (controller *TransferController) DeleteTransfer(c echo.Context) error {
	transferId, err := paramID(c, "transfer_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := controller.svc.DeleteTransfer(c.Request().Context(), transferId); err != nil {
		return responses.ServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
