package portfolio

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

type messageResponse struct {
	Message string `json:"message"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type validationResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func jsonMessage(c echo.Context, code int, msg string) error {
	return c.JSON(code, messageResponse{Message: msg})
}

func jsonSuccess(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: msg})
}

// bindError answers a body c.Bind could not decode. A wrong-typed field is
// listed like a validation error.
func bindError(c echo.Context, msg string, err error) error {
	if fe, ok := typeError(err); ok {
		return c.JSON(http.StatusBadRequest, validationResponse{Message: msg, Errors: []FieldError{fe}})
	}
	return jsonMessage(c, http.StatusBadRequest, msg)
}

// storageError logs err and answers with a generic 500 carrying msg only.
func storageError(c echo.Context, msg string, err error) error {
	c.Logger().Errorf("%s: %v", msg, err)
	return jsonMessage(c, http.StatusInternalServerError, msg)
}

// lookupError maps ErrNotFound to a 404 with notFound and anything else to a 500.
func lookupError(c echo.Context, err error, notFound, failed string) error {
	if errors.Is(err, ErrNotFound) {
		return jsonMessage(c, http.StatusNotFound, notFound)
	}
	return storageError(c, failed, err)
}
