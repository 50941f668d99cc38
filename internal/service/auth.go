package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nycarrests/internal/config"
)

// AuthService issues the short-lived access tokens the route layer uses for
// session auth.
type AuthService struct {
	config *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{config: cfg}
}

// GenerateAccessToken signs an HS256 token carrying the user id as a hex
// string claim.
func (s *AuthService) GenerateAccessToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
