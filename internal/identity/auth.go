package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finledger/internal/common"
)

// UserClaims carries the standard claims plus the authenticated user ID.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID string
}

// GenerateUserToken signs an HS256 access token for a logged-in user.
func GenerateUserToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies the token signature and expiry and returns
// the embedded user ID.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrMalformedToken
	}

	if !token.Valid {
		return "", common.ErrMalformedToken
	}

	return claims.UserID, nil
}
