package services

import (
	"errors"
	"fmt"
	"time"

	"robokart/internal/models"
	"robokart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// Identity is the verified caller attached to every request. The core only
// ever consumes this pair; credential handling lives upstream.
type Identity struct {
	UserID string
	Role   string
}

// AuthService verifies bearer tokens issued by the identity provider and
// resolves them to an Identity. The role is re-read from the user store on
// every request so role changes take effect without reissuing tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which an issued JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// IssueToken signs a JWT for the given user. The storefront itself never
// calls this on a request path; it exists for provisioning tooling and tests
// standing in for the external login flow.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Authenticate resolves a bearer token to a verified Identity, looking the
// user up so the attached role is current, not the one baked into the token.
func (s *AuthService) Authenticate(tokenString string) (*Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("token is missing the user_id claim")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("token user lookup failed: %w", err)
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	return &Identity{UserID: user.ID, Role: role}, nil
}
