// Package auth verifies third-party identity tokens.
package auth

import (
	"context"

	"github.com/finflow-app/finflow-backend/internal/service"
	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates Google ID tokens against a client ID. It
// implements service.GoogleVerifier.
type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates a new GoogleVerifier
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify validates the token's signature and audience and returns its claims
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*service.GoogleClaims, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, err
	}

	claims := &service.GoogleClaims{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		claims.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		claims.Picture = picture
	}
	return claims, nil
}
