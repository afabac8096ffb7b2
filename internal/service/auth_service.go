package service

import (
	"context"
	"strings"
	"time"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GoogleClaims is the identity extracted from a verified Google ID token.
type GoogleClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates a Google ID token and returns its claims.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleClaims, error)
}

// AuthService handles sign-up, sign-in and Google sign-in, issuing HS256
// session tokens.
type AuthService struct {
	userRepo  domain.UserRepository
	google    GoogleVerifier
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, google GoogleVerifier, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		google:    google,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// AuthResult holds a session token and the authenticated user
type AuthResult struct {
	Token string
	User  *domain.User
}

// SignUpInput holds the input for registering a user
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// SignUp registers a new password-based user
func (s *AuthService) SignUp(input SignUpInput) (*AuthResult, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if firstName == "" || lastName == "" || email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}
	if len(firstName) < 2 || len(lastName) < 2 || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hash := string(hashed)

	user, err := s.userRepo.Create(&domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: &hash,
		Provider:     domain.ProviderLocal,
	})
	if err != nil {
		return nil, err
	}

	return s.result(user)
}

// SignIn authenticates a password-based user
func (s *AuthService) SignIn(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.result(user)
}

// GoogleSignIn verifies a Google ID token and signs the user in, creating
// the user on first sight or linking the Google identity to an existing
// account with the same email.
func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*AuthResult, error) {
	if idToken == "" {
		return nil, domain.ErrMissingFields
	}

	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	email := strings.ToLower(claims.Email)

	user, err := s.userRepo.GetByGoogleID(claims.Subject)
	if err == domain.ErrUserNotFound {
		user, err = s.userRepo.GetByEmail(email)
		switch err {
		case nil:
			user, err = s.userRepo.LinkGoogleID(user.ID, claims.Subject)
			if err != nil {
				return nil, err
			}
		case domain.ErrUserNotFound:
			user, err = s.createGoogleUser(claims, email)
			if err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s.result(user)
}

func (s *AuthService) createGoogleUser(claims *GoogleClaims, email string) (*domain.User, error) {
	firstName := strings.SplitN(email, "@", 2)[0]
	lastName := "User"
	if claims.Name != "" {
		parts := strings.Fields(claims.Name)
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = strings.Join(parts[1:], " ")
		}
	}

	user := &domain.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		GoogleID:  &claims.Subject,
		Provider:  domain.ProviderGoogle,
	}
	if claims.Picture != "" {
		user.AvatarURL = &claims.Picture
	}
	return s.userRepo.Create(user)
}

func (s *AuthService) result(user *domain.User) (*AuthResult, error) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
