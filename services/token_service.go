package services

import (
	"fmt"
	"time"

	"hotel-reservation/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "hotel-reservation"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    uint        `json:"user_id"`
	Role      models.Role `json:"role"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) sign(user models.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Issue returns a fresh access + refresh pair for user.
func (s *TokenService) Issue(user models.User) (TokenPair, error) {
	access, err := s.sign(user, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.sign(user, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess returns only an access token, used by the refresh flow.
func (s *TokenService) IssueAccess(user models.User) (string, error) {
	return s.sign(user, TokenTypeAccess, s.accessTTL)
}

// Parse verifies signature, expiry and token type.
func (s *TokenService) Parse(raw, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: %s token given, %s expected", ErrUnauthenticated, claims.TokenType, tokenType)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: token has no user", ErrUnauthenticated)
	}
	return claims, nil
}
