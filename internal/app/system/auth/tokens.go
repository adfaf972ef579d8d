// internal/app/system/auth/tokens.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anvarov/qmshub/internal/domain/models"
)

// Token types carried in the token_type claim. Refresh tokens are only
// accepted by the refresh endpoint; access tokens everywhere else.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrWrongTokenUse = errors.New("auth: wrong token type for this operation")
)

// Claims is the JWT payload for both access and refresh tokens. Subject is
// the user's ObjectID hex.
type Claims struct {
	Role      string `json:"role,omitempty"`
	OrgID     string `json:"org,omitempty"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 JWTs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a TokenManager. The secret must be non-trivial;
// short secrets are rejected so a missing config value fails at startup
// instead of silently signing weak tokens.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: jwt secret must be at least 16 characters")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssueAccess creates a short-lived access token for the user.
func (tm *TokenManager) IssueAccess(user models.User) (string, error) {
	orgID := ""
	if user.OrganizationID != nil {
		orgID = user.OrganizationID.Hex()
	}
	return tm.sign(Claims{
		Role:      user.Role,
		OrgID:     orgID,
		Username:  user.Username,
		TokenType: TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.accessTTL)),
		},
	})
}

// IssueRefresh creates a long-lived refresh token carrying only the user
// identity. Role and organization are re-read from the database on refresh
// so revoked permissions take effect.
func (tm *TokenManager) IssueRefresh(user models.User) (string, error) {
	return tm.sign(Claims{
		TokenType: TokenRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.refreshTTL)),
		},
	})
}

func (tm *TokenManager) sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return s, nil
}

// VerifyAccess parses and validates an access token.
func (tm *TokenManager) VerifyAccess(token string) (*Claims, error) {
	return tm.verify(token, TokenAccess)
}

// VerifyRefresh parses and validates a refresh token.
func (tm *TokenManager) VerifyRefresh(token string) (*Claims, error) {
	return tm.verify(token, TokenRefresh)
}

func (tm *TokenManager) verify(token, wantType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}
