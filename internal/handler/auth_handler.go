package handler

import (
	"errors"
	"net/http"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/finflow-app/finflow-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUpRequest represents the sign-up request body
type SignUpRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SignInRequest represents the sign-in request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleSignInRequest represents the Google sign-in request body
type GoogleSignInRequest struct {
	Token string `json:"token"`
}

// AuthResponse represents a successful authentication payload
type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// SignUp handles POST /api/v1/auth/sign-up
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.authService.SignUp(service.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return Failed(c, http.StatusBadRequest, "Provide required fields")
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return Failed(c, http.StatusBadRequest, "Invalid name or email")
		}
		if errors.Is(err, domain.ErrEmailTaken) {
			return Failed(c, http.StatusConflict, "Email address already exists")
		}
		log.Error().Err(err).Msg("Failed to sign up user")
		return Failed(c, http.StatusInternalServerError, "Failed to sign up")
	}

	log.Info().Str("user_id", result.User.ID.String()).Msg("User signed up")
	return Created(c, "Account created successfully", AuthResponse{Token: result.Token, User: result.User})
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return Failed(c, http.StatusBadRequest, "Provide required fields")
	}

	result, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return Failed(c, http.StatusUnauthorized, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Failed to sign in user")
		return Failed(c, http.StatusInternalServerError, "Failed to sign in")
	}

	return OK(c, "Signed in successfully", AuthResponse{Token: result.Token, User: result.User})
}

// GoogleSignIn handles POST /api/v1/auth/google
func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	var req GoogleSignInRequest
	if err := c.Bind(&req); err != nil {
		return Failed(c, http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.authService.GoogleSignIn(c.Request().Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			return Failed(c, http.StatusBadRequest, "Provide required fields")
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return Failed(c, http.StatusUnauthorized, "Invalid Google token")
		}
		log.Error().Err(err).Msg("Failed to sign in with Google")
		return Failed(c, http.StatusInternalServerError, "Failed to sign in")
	}

	return OK(c, "Signed in successfully", AuthResponse{Token: result.Token, User: result.User})
}

// Logout handles GET /api/v1/auth/logout. Sessions are stateless tokens, so
// logout is a client-side discard.
func (h *AuthHandler) Logout(c echo.Context) error {
	return OK(c, "Logged out successfully", nil)
}
