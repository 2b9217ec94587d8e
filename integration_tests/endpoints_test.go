package integration_tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/controllers"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib"
	"github.com/tenderdesk/ledgerhub/lib/responses"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

type EndpointsTestSuite struct {
	TestSuite
	service *service.LedgerService
	account *models.Account
}

func (suite *EndpointsTestSuite) SetupSuite() {
	svc, err := LedgerTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc

	suite.account, err = createTestAccount(svc, "Wallet", common.AccountKindOrdinary, 0)
	if err != nil {
		log.Fatalf("Error creating test account: %v", err)
	}

	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	suite.echo = e

	accountCtrl := controllers.NewAccountController(svc)
	suite.echo.GET("/v2/accounts/:account_id", accountCtrl.GetAccount)
	entryCtrl := controllers.NewEntryController(svc)
	suite.echo.POST("/v2/entries", entryCtrl.AddEntry)
	suite.echo.GET("/v2/entries/:entry_id", entryCtrl.GetEntry)
	transferCtrl := controllers.NewTransferController(svc)
	suite.echo.POST("/v2/transfers", transferCtrl.CreateTransfer)
}

func (suite *EndpointsTestSuite) TearDownTest() {
	clearTable(suite.service, "entries")
	clearTable(suite.service, "transfers")
	suite.service.DB.Exec("UPDATE accounts SET balance = 0")
}

func (suite *EndpointsTestSuite) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var buf bytes.Buffer
	assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *EndpointsTestSuite) TestAddEntryEndpoint() {
	rec := suite.postJSON("/v2/entries", &controllers.AddEntryRequestBody{
		AccountID: suite.account.ID,
		Direction: common.DirectionIncome,
		Amount:    100,
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	entryResponse := &controllers.EntryResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(entryResponse))
	assert.Equal(suite.T(), int64(10000), entryResponse.Amount)
	assert.Equal(suite.T(), "RUB", entryResponse.Currency)

	// the balance shows up on the account endpoint
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v2/accounts/%d", suite.account.ID), nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	accountResponse := &controllers.AccountResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(accountResponse))
	assert.Equal(suite.T(), int64(10000), accountResponse.Balance)
}

func (suite *EndpointsTestSuite) TestAddEntryValidation() {
	// direction failing the oneof constraint
	rec := suite.postJSON("/v2/entries", map[string]interface{}{
		"account_id": suite.account.ID,
		"direction":  "sideways",
		"amount":     10,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	errorResponse := &responses.ErrorResponse{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	assert.True(suite.T(), errorResponse.Error)
}

func (suite *EndpointsTestSuite) TestUnknownEntryReturns404() {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v2/entries/424242", nil)
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *EndpointsTestSuite) TestSameAccountTransferReturns400() {
	rec := suite.postJSON("/v2/transfers", &controllers.CreateTransferRequestBody{
		FromAccountID: suite.account.ID,
		ToAccountID:   suite.account.ID,
		Amount:        10,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func TestEndpointsTestSuite(t *testing.T) {
	suite.Run(t, new(EndpointsTestSuite))
}
