// Package jwt emite y valida los tokens de acceso de la API de pedidos.
// El token es HS256 y lleva empresa, usuario y rol como claims propios, de
// modo que el middleware RBAC autoriza sin consultar la base de datos.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims son los claims del token de acceso: los registrados (iss, sub,
// iat, exp) más el tenant y el rol del usuario autenticado.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // rol RBAC: admin, bodeguero o vendedor
}

var (
	errEmptySecret   = errors.New("jwt: secret vacío")
	errInvalidClaims = errors.New("jwt: claims inválidos")
)

// Generate firma un token de acceso para el usuario. expMinutes controla la
// vida del token a partir de ahora.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma y vigencia del token y devuelve userID, companyID y
// role. Solo se acepta HS256: un token con otro algoritmo (incluido "none")
// se rechaza antes de verificar la firma.
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	if secret == "" {
		return "", "", "", errEmptySecret
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AccessClaims{},
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", "", "", fmt.Errorf("jwt: validar token: %w", err)
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return "", "", "", errInvalidClaims
	}
	return claims.UserID, claims.CompanyID, claims.Role, nil
}
