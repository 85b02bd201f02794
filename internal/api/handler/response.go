package handler

import "github.com/labstack/echo/v4"

// envelope is the body of every success response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// errorEnvelope documents failure bodies; the central error handler writes them.
type errorEnvelope struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"access denied"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: true, Message: msg})
}
