package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"
	"taskboard/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string         `json:"token"`
	User  *models.Member `json:"user"`
}

type AuthService struct {
	members   repositories.MemberRepository
	jwt       *JWTService
	blacklist repositories.TokenBlacklist
	passwords utils.PasswordBlacklist
	now       func() time.Time
}

func NewAuthService(members repositories.MemberRepository, jwt *JWTService, blacklist repositories.TokenBlacklist) *AuthService {
	return &AuthService{members: members, jwt: jwt, blacklist: blacklist, now: time.Now}
}

// SetPasswordBlacklist makes Register refuse the listed passwords.
func (s *AuthService) SetPasswordBlacklist(passwords utils.PasswordBlacklist) {
	s.passwords = passwords
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if s.passwords.Contains(req.Password) {
		return nil, fmt.Errorf("%w: password is too common, choose another one", models.ErrValidation)
	}

	_, err := s.members.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, models.ErrDuplicateEmail
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("check member existence: %w", err)
	}

	digest, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	member := &models.Member{
		Name:      req.Name,
		Email:     req.Email,
		Password:  digest,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: MEMBER_REGISTERED, Description: Member %s registered", member.ID.Hex())
	return s.issue(member)
}

// Login never reveals whether the email exists: unknown email, missing
// digest and wrong password all return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	member, err := s.members.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrNotFound) {
		utils.CheckPassword("", req.Password)
		logging.Logger.Warn("Event ID: LOGIN_FAILED, Description: Login attempt with invalid credentials")
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	if !utils.CheckPassword(member.Password, req.Password) {
		logging.Logger.Warn("Event ID: LOGIN_FAILED, Description: Login attempt with invalid credentials")
		return nil, models.ErrInvalidCredentials
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: Member %s logged in", member.ID.Hex())
	return s.issue(member)
}

func (s *AuthService) issue(member *models.Member) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(member)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	member.Password = ""
	if member.Role == "" {
		member.Role = models.RoleUser
	}
	return &AuthResult{Token: token, User: member}, nil
}

// ResolveSession verifies a bearer token and checks it has not been revoked.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no token", models.ErrUnauthenticated)
	}
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: token is not valid", models.ErrUnauthenticated)
	}
	if claims.ID != "" && s.blacklist != nil && s.blacklist.IsRevoked(ctx, claims.ID) {
		return nil, fmt.Errorf("%w: token has been revoked", models.ErrUnauthenticated)
	}
	return claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *models.Claims) error {
	if err := requireAuthenticated(claims); err != nil {
		return err
	}
	if claims.ID == "" || claims.ExpiresAt == nil || s.blacklist == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	logging.Logger.Infof("Event ID: LOGOUT, Description: Member %s logged out", claims.MemberID)
	return nil
}

// Me returns the caller's member record without its digest.
func (s *AuthService) Me(ctx context.Context, claims *models.Claims) (*models.Member, error) {
	id, err := memberIDOf(claims)
	if err != nil {
		return nil, err
	}
	member, err := s.members.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: member no longer exists", models.ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	member.Password = ""
	return member, nil
}
