package utils

import (
	"errors"
	"fmt"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
	"strings"
)

type TokenData struct {
	Sub   string
	Email string
	Exp   int64
}

// TokenValidator checks identity provider tokens.
type TokenValidator interface {
	ValidateToken(token string) (*TokenData, error)
}

// CognitoValidator verifies Cognito ID tokens against the user pool JWKS.
type CognitoValidator struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	clientID string
}

func NewCognitoValidator(region, poolID, clientID string) (*CognitoValidator, error) {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, poolID)

	// URL where Cognito publishes its public keys
	jwksURL := issuer + "/.well-known/jwks.json"
	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return &CognitoValidator{
		jwks:     jwks,
		issuer:   issuer,
		clientID: clientID,
	}, nil
}

// ValidateToken parses AND validates the signature locally.
// It returns the data if the token is authentic, unexpired and an ID token
// issued for this app client.
func (v *CognitoValidator) ValidateToken(tokenString string) (*TokenData, error) {
	clean := SanitizeToken(tokenString)
	if clean == "" {
		return nil, errors.New("empty token")
	}

	token, err := jwt.Parse(clean, v.jwks.Keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	if use := getValue(claims, "token_use"); use != "id" {
		return nil, fmt.Errorf("unexpected token_use %q", use)
	}

	return &TokenData{
		Sub:   getValue(claims, "sub"),
		Email: getValue(claims, "email"),
		Exp:   getInt64(claims, "exp"),
	}, nil
}

func SanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
