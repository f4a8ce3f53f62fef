package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

// ErrInvalidToken covers bad signatures, wrong algorithms and expired tokens
var ErrInvalidToken = errors.New("invalid token")

// Claims is what the API needs to know about the caller
type Claims struct {
	Username  string
	UserType  string
	ExpiresAt time.Time
}

// GenerateToken signs an HS256 access token for username, valid for ttl
func GenerateToken(username, userType, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret key is missing")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       username,
		"user_type": userType,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}
	return signed, nil
}

// ValidateAndGetClaims checks the signature and expiry of token and returns its claims
func ValidateAndGetClaims(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	username, _ := mapClaims["sub"].(string)
	userType, _ := mapClaims["user_type"].(string)
	exp, ok := mapClaims["exp"].(float64)
	if username == "" || !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{
		Username:  username,
		UserType:  userType,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
