package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/entityhub/internal/errs"
)

// requestTimeout bounds the store and mail calls of a single request.
const requestTimeout = 5 * time.Second

// Envelope wraps every JSON response.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func respondSuccess(c echo.Context, data any, message string) error {
	if message == "" {
		message = "Success"
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data, Timestamp: time.Now().UTC()})
}

func respondCreated(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: "Created", Data: data, Timestamp: time.Now().UTC()})
}

func respondOK(c echo.Context, message string) error {
	return respondSuccess(c, nil, message)
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bind decodes the request body into dst and validates it.
func bind(c echo.Context, dst validation.Validatable) error {
	if err := c.Bind(dst); err != nil {
		return errs.New(errs.ErrInvalidParameter, "Invalid request body")
	}
	if err := dst.Validate(); err != nil {
		return errs.New(errs.ErrValidation, err.Error())
	}
	return nil
}

var statusByKind = []struct {
	kind   error
	status int
}{
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrInvalidCredentials, http.StatusBadRequest},
	{errs.ErrDuplicateEmail, http.StatusConflict},
	{errs.ErrInvalidToken, http.StatusUnauthorized},
	{errs.ErrUnauthorized, http.StatusUnauthorized},
	{errs.ErrForbidden, http.StatusForbidden},
	{errs.ErrUnknownEntity, http.StatusInternalServerError},
	{errs.ErrInvalidParameter, http.StatusBadRequest},
	{errs.ErrValidation, http.StatusUnprocessableEntity},
}

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// ErrorHandler renders errors as failed envelopes. Errors without a known
// kind are logged and reported as "Something went wrong".
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := StatusOf(err)
		message := errs.MsgSomethingWrong

		var (
			ke *errs.Error
			he *echo.HTTPError
		)
		switch {
		case errors.As(err, &ke):
			message = ke.Error()
		case errors.Is(err, errs.ErrInvalidToken):
			message = errs.MsgInvalidToken
		case errors.As(err, &he):
			message = fmt.Sprint(he.Message)
		default:
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, Envelope{Success: false, Message: message, Timestamp: time.Now().UTC()})
	}
}
