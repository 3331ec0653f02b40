package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/PvtMilo/WMS-demo/models"
	"github.com/PvtMilo/WMS-demo/service"

	"github.com/golang-jwt/jwt/v5"
)

var (
	secretKey = []byte("rahasia-super-kuat")
	tokenTTL  = 12 * time.Hour
)

// ConfigureJWT override secret + masa berlaku dari ENV.
func ConfigureJWT(secret string, ttl time.Duration) {
	if secret != "" {
		secretKey = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(userID uint, username string, role models.Role) (string, time.Time, error) {
	exp := time.Now().Add(tokenTTL)
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secretKey)
	return signed, exp, err
}

func VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("token tidak valid")
	}
	return claims, nil
}

// JWTResolver implementasi service.CallerResolver berbasis token JWT.
type JWTResolver struct{}

func (JWTResolver) ResolveCaller(token string) (service.Caller, error) {
	claims, err := VerifyToken(token)
	if err != nil {
		return service.Caller{}, service.ErrUnauthenticated
	}
	role := models.Role(claims.Role)
	if claims.UserID == 0 || !role.Valid() {
		return service.Caller{}, service.ErrUnauthenticated
	}
	return service.Caller{ID: claims.UserID, Username: claims.Username, Role: role}, nil
}
