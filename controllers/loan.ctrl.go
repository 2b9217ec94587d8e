package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

// LoanController : Loan controller struct
type LoanController struct {
	svc *service.LedgerService
}

func NewLoanController(svc *service.LedgerService) *LoanController {
	return &LoanController{svc: svc}
}

type CreateLoanRequestBody struct {
	Name      string  `json:"name" validate:"required"`
	Principal float64 `json:"principal" validate:"required,gt=0"`
}

type LoanResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Principal       int64      `json:"principal"`
	PrincipalPaid   int64      `json:"principal_paid"`
	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"`
}

type RecordLoanPaymentRequestBody struct {
	AccountID        int64   `json:"account_id" validate:"required"`
	Amount           float64 `json:"amount" validate:"required,gt=0"`
	PrincipalAmount  float64 `json:"principal_amount" validate:"gte=0"`
	CommissionAmount float64 `json:"commission_amount" validate:"gte=0"`
	OccurredAt       string  `json:"occurred_at"`
	Counterparty     string  `json:"counterparty"`
}

type LoanPaymentResponse struct {
	ID              int64     `json:"id"`
	LoanID          int64     `json:"loan_id"`
	Amount          int64     `json:"amount"`
	PrincipalAmount int64     `json:"principal_amount"`
	PaymentDate     time.Time `json:"payment_date"`
}

func (controller *LoanController) CreateLoan(c echo.Context) error {
	var body CreateLoanRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create loan request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create loan request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	loan, err := controller.svc.CreateLoan(c.Request().Context(), body.Name, body.Principal)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	resp := LoanResponse{ID: loan.ID, Name: loan.Name, Principal: loan.Principal, PrincipalPaid: loan.PrincipalPaid}
	return c.JSON(http.StatusOK, &resp)
}

func (controller *LoanController) GetLoan(c echo.Context) error {
	loanId, err := paramID(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	loan, err := controller.svc.FindLoan(c.Request().Context(), loanId)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	resp := LoanResponse{ID: loan.ID, Name: loan.Name, Principal: loan.Principal, PrincipalPaid: loan.PrincipalPaid}
	if !loan.LastPaymentDate.Time.IsZero() {
		resp.LastPaymentDate = &loan.LastPaymentDate.Time
	}
	return c.JSON(http.StatusOK, &resp)
}

func (controller *LoanController) RecordPayment(c echo.Context) error {
	loanId, err := paramID(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body RecordLoanPaymentRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load loan payment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid loan payment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	params := service.RecordLoanPaymentParams{
		LoanID:           loanId,
		AccountID:        body.AccountID,
		Amount:           body.Amount,
		PrincipalAmount:  body.PrincipalAmount,
		CommissionAmount: body.CommissionAmount,
		Counterparty:     body.Counterparty,
	}
	if body.OccurredAt != "" {
		occurredAt, err := ledger.ParseOccurredAt(body.OccurredAt)
		if err != nil {
			c.Logger().Errorf("Failed to parse occurred_at: %v", err)
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		params.OccurredAt = occurredAt
	}

	payment, err := controller.svc.RecordLoanPayment(c.Request().Context(), params)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, &LoanPaymentResponse{
		ID:              payment.ID,
		LoanID:          payment.LoanID,
		Amount:          payment.Amount,
		PrincipalAmount: payment.PrincipalAmount,
		PaymentDate:     payment.PaymentDate,
	})
}
