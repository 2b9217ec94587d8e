package responses

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "The requested resource was not found",
	HttpStatusCode: 404,
}

var SameAccountTransferError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "a transfer needs two distinct accounts",
	HttpStatusCode: 400,
}

// ServiceError maps a ledger service error onto the matching JSON error
// response. Store failures stay generic: the caller gets a retry prompt,
// the details go to the log and sentry.
func ServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidArgument):
		resp := BadArgumentsError
		resp.Message = err.Error()
		return c.JSON(resp.HttpStatusCode, &resp)
	case errors.Is(err, ledger.ErrNotFound):
		return c.JSON(NotFoundError.HttpStatusCode, &NotFoundError)
	default:
		c.Logger().Error(err)
		sentry.CaptureException(err)
		return c.JSON(GeneralServerError.HttpStatusCode, &GeneralServerError)
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
