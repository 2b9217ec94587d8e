package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

// PlanController : Plan controller struct
type PlanController struct {
	svc *service.LedgerService
}

func NewPlanController(svc *service.LedgerService) *PlanController {
	return &PlanController{svc: svc}
}

type CreatePlanRequestBody struct {
	Name         string  `json:"name" validate:"required"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
}

type PlanResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TargetAmount int64  `json:"target_amount"`
}

type RecordTopUpRequestBody struct {
	EntryID int64 `json:"entry_id" validate:"required"`
}

type PlanTopUpResponse struct {
	ID      int64 `json:"id"`
	PlanID  int64 `json:"plan_id"`
	EntryID int64 `json:"entry_id"`
	Amount  int64 `json:"amount"`
}

func (controller *PlanController) CreatePlan(c echo.Context) error {
	var body CreatePlanRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create plan request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create plan request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	plan, err := controller.svc.CreatePlan(c.Request().Context(), body.Name, body.TargetAmount)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, &PlanResponse{ID: plan.ID, Name: plan.Name, TargetAmount: plan.TargetAmount})
}

func (controller *PlanController) RecordTopUp(c echo.Context) error {
	planId, err := paramID(c, "plan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body RecordTopUpRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load top-up request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid top-up request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	topUp, err := controller.svc.RecordPlanTopUp(c.Request().Context(), planId, body.EntryID)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, &PlanTopUpResponse{ID: topUp.ID, PlanID: topUp.PlanID, EntryID: topUp.EntryID, Amount: topUp.Amount})
}
