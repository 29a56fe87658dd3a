package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/a-mirror/mirror-api/internal/config"
)

var ErrNotAdmin = errors.New("token does not carry the admin role")

// GenerateAdminToken creates a signed JWT granting admin access to the bot
// registry endpoints. Subject is a free-form operator label for audit logs.
func GenerateAdminToken(cfg *config.Config, subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.Admin.Secret))
}

// ParseAdminToken verifies signature and expiry and requires the admin role.
// Returns the token subject on success.
func ParseAdminToken(cfg *config.Config, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Admin.Secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", errors.New("invalid token claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return "", ErrNotAdmin
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
