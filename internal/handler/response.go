package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response body: status is "success" or "failed",
// message is human-readable, data carries the payload when there is one.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// OK writes a 200 success envelope
func OK(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Created writes a 201 success envelope
func Created(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Failed writes a failure envelope with the given status code
func Failed(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{
		Status:  StatusFailed,
		Message: message,
	})
}
