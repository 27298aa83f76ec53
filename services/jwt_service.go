package services

import (
	"errors"
	"time"

	"taskboard/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenExpiry is how long a session token stays valid.
const TokenExpiry = 24 * time.Hour

// JWTService issues and verifies HS256 session tokens.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret), now: time.Now}
}

// GenerateToken signs a token carrying the member id and role. Each token gets
// a unique id so it can be revoked on logout.
func (s *JWTService) GenerateToken(member *models.Member) (string, error) {
	now := s.now()
	role := member.Role
	if role == "" {
		role = models.RoleUser
	}
	claims := &models.Claims{
		MemberID: member.ID.Hex(),
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   member.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken checks the signature and expiry and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.MemberID == "" {
		return nil, errors.New("token carries no member id")
	}
	return claims, nil
}
