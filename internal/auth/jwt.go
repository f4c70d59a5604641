package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenTTL  = time.Hour * 24 * 3 // 3 days
	refreshTokenTTL = time.Hour * 24 * 9 // 9 days
)

var (
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrEmptySecret   = errors.New("token signing secret is empty")
)

type JWTAuthenticator struct {
	secret        string
	refreshSecret string
	aud           string
	iss           string
}

// NewJWTAuthenticator fails with ErrEmptySecret when either secret is empty.
func NewJWTAuthenticator(secret, refreshSecret, aud, iss string) (*JWTAuthenticator, error) {
	if secret == "" || refreshSecret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTAuthenticator{secret: secret, refreshSecret: refreshSecret, aud: aud, iss: iss}, nil
}

// GenerateTokens generates both access and refresh tokens
func (a *JWTAuthenticator) GenerateTokens(userID uuid.UUID, role string) (string, string, error) {
	now := time.Now()
	accessClaims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  now.Add(accessTokenTTL).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"iss":  a.iss,
		"aud":  a.aud,
	}

	refreshClaims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": now.Add(refreshTokenTTL).Unix(),
		"iat": now.Unix(),
		"iss": a.iss,
	}

	accessToken, err := a.generateTokenWithClaims(accessClaims, a.secret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := a.generateTokenWithClaims(refreshClaims, a.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (a *JWTAuthenticator) generateTokenWithClaims(claims jwt.Claims, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates the access token
func (a *JWTAuthenticator) ValidateAccessToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.secret, jwt.WithAudience(a.aud), jwt.WithIssuer(a.iss))
}

// ValidateRefreshToken validates the refresh token
func (a *JWTAuthenticator) ValidateRefreshToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.refreshSecret, jwt.WithIssuer(a.iss))
}

func (a *JWTAuthenticator) parse(token, secret string, opts ...jwt.ParserOption) (*jwt.Token, error) {
	opts = append(opts, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	return jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		if secret == "" {
			return nil, ErrEmptySecret
		}
		return []byte(secret), nil
	}, opts...)
}

// Subject extracts the user id and role from a validated token. Refresh
// tokens carry no role.
func Subject(token *jwt.Token) (uuid.UUID, string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidClaims
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: subject is not a user id", ErrInvalidClaims)
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}
