package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"libraryhub/internal/config"
	"libraryhub/internal/middleware/auth"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

const (
	tokenIssuer     = "libraryhub"
	accessTokenType = "access"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidRole        = errors.New("role must be librarian or admin")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAdminEmailTaken    = errors.New("bootstrap admin email belongs to a non-admin account")
	ErrUserNotFound       = errors.New("user not found")
)

// Scopes granted per role. "*" grants everything.
var roleScopes = map[string][]string{
	models.RoleLibrarian: {"books:read", "books:write", "readers:read", "readers:write", "loans:write"},
	models.RoleAdmin:     {"*"},
}

// Claims is the access token payload.
type Claims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
	Type   string   `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService interface {
	// Register creates a librarian account. Admins come from EnsureAdmin or
	// SetRole only.
	Register(ctx context.Context, email, password string) (*models.User, error)
	// EnsureAdmin creates the bootstrap admin account if it does not exist.
	// An existing non-admin account with that email is an error, never
	// promoted.
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, error)
	SetRole(ctx context.Context, userID, role string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error)
	// Refresh exchanges a refresh token for a new pair. The presented token
	// is revoked; presenting a revoked token again revokes every token of
	// that user.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	ValidateToken(tokenString string) (*Claims, error)
	// Authenticate validates the token and checks the account is still active.
	Authenticate(ctx context.Context, tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        []byte
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return s.create(ctx, email, password, models.RoleLibrarian)
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.Role == models.RoleAdmin:
		return existing, nil
	case err == nil:
		return nil, ErrAdminEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return s.create(ctx, email, password, models.RoleAdmin)
}

func (s *authService) SetRole(ctx context.Context, userID, role string) (*models.User, error) {
	if _, ok := roleScopes[role]; !ok {
		return nil, ErrInvalidRole
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *authService) create(ctx context.Context, email, password, role string) (*models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Role:     role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("lookup user: %w", err)
		}
		auth.BurnCompare(password)
		return nil, nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	// last_login is informational
	_ = s.userRepo.TouchLastLogin(ctx, user.ID, now)
	user.LastLogin = &now

	return pair, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.refreshTokenRepo.FindByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	now := s.now()
	if stored.RevokedAt != nil {
		// a rotated token came back: treat the whole family as leaked
		if err := s.refreshTokenRepo.RevokeAllForUser(ctx, stored.UserID, now); err != nil {
			return nil, err
		}
		return nil, ErrInvalidToken
	}
	if !stored.Usable(now) {
		return nil, ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// lost a race with a concurrent refresh of the same token
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *authService) Revoke(ctx context.Context, refreshToken string) error {
	stored, err := s.refreshTokenRepo.FindByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID, s.now()); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != accessTokenType || claims.Subject == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return claims, nil
}

func (s *authService) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTokenTTL)

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Scopes: slices.Clone(roleScopes[user.Role]),
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			ID:        uuid.NewString(),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.NewString() + uuid.NewString()
	if err := s.refreshTokenRepo.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: now.Add(s.refreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
