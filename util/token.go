package util

import (
	"errors"
	"fmt"
	"time"

	"bioserver/config"
	"bioserver/logutils"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type (
	JWTClaims struct {
		UserID   string `json:"ui"`
		Username string `json:"un"`
		jwt.RegisteredClaims
	}
	JWTMessage struct {
		UserID   string `json:"userID"`   // User ID, stamped into userId of created documents
		Username string `json:"username"` // Username
	}
)

type TokenManager struct {
	secretKey       string
	accessTokenTTL  int
	refreshTokenTTL int
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return newTokenManager(cfg.AccessTokenSecret, cfg.AccessTokenExpiryHour, cfg.RefreshTokenExpiryHour)
}

func newTokenManager(secretKey string, accessTokenTTL, refreshTokenTTL int) *TokenManager {
	return &TokenManager{
		secretKey,
		accessTokenTTL,
		refreshTokenTTL,
	}
}

func (tm *TokenManager) createToken(msg *JWTMessage, ttl int) (string, error) {
	now := time.Now()
	expiresAt := now.Add(time.Hour * time.Duration(ttl))

	claims := &JWTClaims{
		UserID:   msg.UserID,
		Username: msg.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   msg.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secretKey))
}

// CreateTokens creates a new access token and a new refresh token
func (tm *TokenManager) CreateTokens(msg *JWTMessage) (
	accessToken string, refreshToken string, err error) {
	accessToken, err = tm.createToken(msg, tm.accessTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	refreshToken, err = tm.createToken(msg, tm.refreshTokenTTL)
	if err != nil {
		logutils.Log.Error(err)
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// CheckToken verifies signature, algorithm and expiry. Tokens without a user id
// are rejected.
func (tm *TokenManager) CheckToken(requestToken string) (JWTMessage, error) {
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(requestToken, &claims, func(_ *jwt.Token) (any, error) {
		return []byte(tm.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return JWTMessage{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return JWTMessage{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return JWTMessage{
		UserID:   claims.UserID,
		Username: claims.Username,
	}, nil
}
