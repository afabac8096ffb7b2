package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/finflow-app/finflow-backend/internal/service"
	"github.com/finflow-app/finflow-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

type stubVerifier struct {
	claims *service.GoogleClaims
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, idToken string) (*service.GoogleClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newAuthHandler(verifier service.GoogleVerifier) (*AuthHandler, *testutil.MockUserRepository) {
	userRepo := testutil.NewMockUserRepository()
	authService := service.NewAuthService(userRepo, verifier, "test-secret", 24*time.Hour)
	return NewAuthHandler(authService), userRepo
}

func TestSignUpHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler(&stubVerifier{})

	body := `{"firstname": "Ada", "lastname": "Lovelace", "email": "ada@example.com", "password": "correct horse"}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/sign-up", body)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	checkStatus(t, rec, http.StatusCreated)

	envelope := decodeEnvelope(t, rec)
	if envelope.Status != StatusSuccess {
		t.Errorf("Expected status success, got %s", envelope.Status)
	}
	data := envelope.Data.(map[string]any)
	if data["token"] == "" {
		t.Error("Expected a session token")
	}
	user := data["user"].(map[string]any)
	if user["email"] != "ada@example.com" {
		t.Errorf("Expected email in response, got %v", user["email"])
	}
	if _, ok := user["password"]; ok {
		t.Error("Password material must not appear in the response")
	}
}

func TestSignUpHandler_DuplicateEmail(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler(&stubVerifier{})

	body := `{"firstname": "Ada", "lastname": "Lovelace", "email": "ada@example.com", "password": "pw"}`
	c, _ := newJSONContext(e, http.MethodPost, "/api/v1/auth/sign-up", body)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/sign-up", body)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	checkStatus(t, rec, http.StatusConflict)
}

func TestSignUpHandler_MissingFields(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler(&stubVerifier{})

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/sign-up", `{"email": "ada@example.com"}`)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	checkStatus(t, rec, http.StatusBadRequest)
}

func TestSignInHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler(&stubVerifier{})

	signUpBody := `{"firstname": "Ada", "lastname": "Lovelace", "email": "ada@example.com", "password": "correct horse"}`
	c, _ := newJSONContext(e, http.MethodPost, "/api/v1/auth/sign-up", signUpBody)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/sign-in", `{"email": "ada@example.com", "password": "correct horse"}`)
	if err := handler.SignIn(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	checkStatus(t, rec, http.StatusOK)
}

func TestSignInHandler_BadCredentials(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler(&stubVerifier{})

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/sign-in", `{"email": "nobody@example.com", "password": "pw"}`)
	if err := handler.SignIn(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	checkStatus(t, rec, http.StatusUnauthorized)
}

func TestGoogleSignInHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler(&stubVerifier{claims: &service.GoogleClaims{
		Subject: "google-123",
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
	}})

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/auth/google", `{"token": "id-token"}`)
	if err := handler.GoogleSignIn(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	checkStatus(t, rec, http.StatusOK)
}

func TestLogoutHandler(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler(&stubVerifier{})

	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/auth/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	checkStatus(t, rec, http.StatusOK)
}
