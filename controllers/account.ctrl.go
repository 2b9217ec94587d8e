package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

// AccountController : Account controller struct
type AccountController struct {
	svc *service.LedgerService
}

func NewAccountController(svc *service.LedgerService) *AccountController {
	return &AccountController{svc: svc}
}

type CreateAccountRequestBody struct {
	Name        string  `json:"name" validate:"required"`
	Kind        string  `json:"kind" validate:"required"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	CreditLimit float64 `json:"credit_limit" validate:"gte=0"`
}

type AccountResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Currency    string `json:"currency"`
	CreditLimit int64  `json:"credit_limit,omitempty"`
	Balance     int64  `json:"balance"`
	Available   int64  `json:"available"`
}

func accountResponse(account *models.Account) AccountResponse {
	resp := AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Kind:      account.Kind,
		Currency:  account.Currency,
		Balance:   account.Balance,
		Available: account.Available(),
	}
	if account.Kind == common.AccountKindRevolvingCredit {
		resp.CreditLimit = account.CreditLimit
	}
	return resp
}

func (controller *AccountController) CreateAccount(c echo.Context) error {
	var body CreateAccountRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create account request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create account request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	account, err := controller.svc.CreateAccount(c.Request().Context(), body.Name, body.Kind, body.Currency, body.CreditLimit)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, accountResponse(account))
}

func (controller *AccountController) GetAccount(c echo.Context) error {
	accountId, err := paramID(c, "account_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	account, err := controller.svc.FindAccount(c.Request().Context(), accountId)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, accountResponse(account))
}

func (controller *AccountController) ListAccounts(c echo.Context) error {
	accounts, err := controller.svc.ListAccounts(c.Request().Context())
	if err != nil {
		return responses.ServiceError(c, err)
	}
	response := make([]AccountResponse, len(accounts))
	for i := range accounts {
		response[i] = accountResponse(&accounts[i])
	}
	return c.JSON(http.StatusOK, response)
}
