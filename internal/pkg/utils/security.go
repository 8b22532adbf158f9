package utils

import (
	"medbook-service/internal/pkg/exceptions"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// AuthClaims are the token claims the guard consumes: the principal's id and
// role, plus the redis session id so logout revokes the token.
type AuthClaims struct {
	SessionID string
	UserID    string
	Role      string
}

func GenerateAuthJWT(claims AuthClaims, secret string, expTimeInHour int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": claims.SessionID,
		"sub":        claims.UserID,
		"role":       claims.Role,
		"exp":        time.Now().Add(time.Duration(expTimeInHour) * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}
	return tokenString, nil
}

func ParseAuthJWT(tokenString, secret string) (*AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}

	sessionID, _ := claims["session_id"].(string)
	userID, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sessionID == "" || userID == "" || role == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}

	return &AuthClaims{SessionID: sessionID, UserID: userID, Role: role}, nil
}
