package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
)

// NewHTTPErrorHandler renders every error through one envelope. Operational
// errors surface their message with the status mapped from their kind;
// anything else is logged and answered opaquely. Outside production the
// internal cause is attached to the response for diagnostics.
func NewHTTPErrorHandler(isProduction bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status   int
			resp     apperrors.ErrorResponse
			internal error
		)

		var appErr *apperrors.Error
		var valErrs validator.ValidationErrors
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			if appErr.Operational() {
				status = appErr.Kind.HTTPStatus()
				resp = apperrors.ErrorResponse{
					Status:  appErr.Kind.StatusWord(),
					Message: appErr.Message,
				}
				internal = appErr.Err
			} else {
				status = http.StatusInternalServerError
				resp = apperrors.ErrorResponse{Status: "error", Message: "something went very wrong"}
				internal = err
			}
		case errors.As(err, &valErrs):
			status = http.StatusBadRequest
			resp = apperrors.ErrorResponse{
				Status:  "fail",
				Message: fmt.Sprintf("invalid input data: %v", valErrs),
			}
		case errors.As(err, &echoErr):
			status = echoErr.Code
			message := fmt.Sprintf("%v", echoErr.Message)
			if status == http.StatusNotFound {
				message = fmt.Sprintf("cant find %s on this server", c.Request().RequestURI)
			}
			word := "fail"
			if status >= http.StatusInternalServerError {
				word = "error"
			}
			resp = apperrors.ErrorResponse{Status: word, Message: message}
			internal = echoErr.Internal
		default:
			status = http.StatusInternalServerError
			resp = apperrors.ErrorResponse{Status: "error", Message: "something went very wrong"}
			internal = err
		}

		if internal != nil {
			c.Logger().Error(internal)
			if !isProduction {
				resp.Detail = internal.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}
