package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

// The serverless functions this service replaces answered every failure with
// a bare {error} body. Agents in the field parse that shape, so both function
// endpoints keep it instead of the structured error middleware response.
type legacyError struct {
	Error string `json:"error"`
}

// LegacyErrorResponse writes an {error: message} body with the given status.
func LegacyErrorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, legacyError{Error: message})
}

// LegacyFromError maps an error to the legacy body, using the carried status
// for httperrors and 500 otherwise.
func LegacyFromError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if httperror.IsHTTPError(err) {
		status = httperror.GetStatusCode(err)
	}
	return LegacyErrorResponse(c, status, err.Error())
}

// SuccessResponse returns a 200 OK with data
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

func setCORSHeaders(c echo.Context, allowHeaders string) {
	header := c.Response().Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", allowHeaders)
}
