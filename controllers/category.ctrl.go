package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

// CategoryController : Category controller struct
type CategoryController struct {
	svc *service.LedgerService
}

func NewCategoryController(svc *service.LedgerService) *CategoryController {
	return &CategoryController{svc: svc}
}

type CreateCategoryRequestBody struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"required,oneof=regular loan_repayment commission"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (controller *CategoryController) CreateCategory(c echo.Context) error {
	var body CreateCategoryRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create category request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create category request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	category, err := controller.svc.CreateCategory(c.Request().Context(), body.Name, body.Kind)
	if err != nil {
		return responses.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, &CategoryResponse{ID: category.ID, Name: category.Name, Kind: category.Kind})
}

func (controller *CategoryController) ListCategories(c echo.Context) error {
	categories, err := controller.svc.ListCategories(c.Request().Context())
	if err != nil {
		return responses.ServiceError(c, err)
	}
	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = CategoryResponse{ID: category.ID, Name: category.Name, Kind: category.Kind}
	}
	return c.JSON(http.StatusOK, response)
}
