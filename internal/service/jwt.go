package service

import (
	"errors"
	"os"
	"time"

	"crash_webapp/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL bounds how long a login stays valid before the client must
// authenticate again.
const sessionTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

var jwtSecret []byte

// InitJWT loads the signing secret. The process refuses to start without one.
func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a session token carrying the user id, valid for
// sessionTTL from now.
func GenerateJWT(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(sessionTTL).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates a session token and returns the user id it carries.
// Expiry and not-before are checked by the parser; a token without an exp
// claim is rejected outright.
func ParseJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}

	return int64(userID), nil
}
