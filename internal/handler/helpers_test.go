package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finflow-app/finflow-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// newJSONContext builds an echo context for a JSON request and returns it
// with its recorder.
func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// setupAuthContext stores an authenticated user ID on the context, the way
// the auth middleware would.
func setupAuthContext(c echo.Context, userID uuid.UUID) {
	c.Set(middleware.UserIDKey, userID)
}

// decodeEnvelope unmarshals a response body into an Envelope
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return envelope
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}
