package utils

import (
	"errors"
	"strings"
	"time"

	"pincorder/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Claims is the payload of a Pincorder access token.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

var errNoSubject = errors.New("token has no user")

func GenerateJWTToken(userID uint, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTTTLHours) * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// ParseJWTToken verifies an HS256 token signed with secret and returns its claims.
func ParseJWTToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, errNoSubject
	}
	return claims, nil
}

// ExtractUserIDFromToken reads the Authorization header, with or without
// the "Bearer " prefix, and returns the user it was issued for.
func ExtractUserIDFromToken(c *fiber.Ctx, cfg *config.Config) (uint, error) {
	tokenString := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
	if tokenString == "" {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}

	claims, err := ParseJWTToken(tokenString, cfg.JWTSecret)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Token has expired")
	case errors.Is(err, errNoSubject):
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	case err != nil:
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	return claims.UserID, nil
}
