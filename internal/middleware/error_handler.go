package middleware

import (
	"errors"
	"net/http"

	"shopTrace/pkg/logger"

	jsonres "shopTrace/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler: echo errors keep their status,
// everything else becomes a 500 with a generic body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		if jerr := c.JSON(httpErr.Code, jsonres.Error("HTTP_ERROR", message, nil)); jerr != nil {
			logger.Error("failed to write error response", jerr)
		}
		return
	}

	logger.Error("unhandled error", err, "path", c.Request().URL.Path)
	if jerr := c.JSON(http.StatusInternalServerError, jsonres.Error(
		"INTERNAL_ERROR", "internal server error", nil,
	)); jerr != nil {
		logger.Error("failed to write error response", jerr)
	}
}
