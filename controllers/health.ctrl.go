package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

type HealthController struct {
	svc *service.LedgerService
}

func NewHealthController(svc *service.LedgerService) *HealthController {
	return &HealthController{svc: svc}
}

type HealthResponse struct {
	Result string `json:"result"`
}

func (controller *HealthController) Check(c echo.Context) error {
	if err := controller.svc.DB.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, &HealthResponse{Result: "DOWN"})
	}
	return c.JSON(http.StatusOK, &HealthResponse{
		Result: "OK",
	})
}
