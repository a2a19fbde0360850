package services

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService guards the admin control surface. A successful login issues
// a short-lived token which privileged events must carry and which is
// re-validated on every call, rather than trusting a per-connection flag.
type AuthService struct {
	adminPassword string
	jwtSecret     []byte
}

func NewAuthService(adminPassword, jwtSecret string) *AuthService {
	return &AuthService{adminPassword: adminPassword, jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return "", errors.New("invalid admin password")
	}
	return s.generateToken()
}

func (s *AuthService) generateToken() (string, error) {
	claims := jwt.MapClaims{
		"admin": true,
		"exp":   time.Now().Add(12 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid claims")
	}
	if isAdmin, ok := claims["admin"].(bool); !ok || !isAdmin {
		return errors.New("not an admin token")
	}
	return nil
}
