package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain"
	"storefront/pkg/logger"
	"storefront/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrUserNotFound = errors.New("user not found")

	// ErrRefreshTokenNotFound is returned by RefreshTokenStore.Lookup.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// RefreshTokenStore maps opaque refresh tokens to user ids.
type RefreshTokenStore interface {
	Store(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (uint, error)
	Delete(ctx context.Context, token string) error
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// Claims is the verified identity carried by an access token.
type Claims struct {
	UserID uint
	Email  string
	Role   domain.Role
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      RefreshTokenStore
	users      UserFinder
	now        func() time.Time
	newID      func() string
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, store RefreshTokenStore, users UserFinder) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		store:      store,
		users:      users,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
}

// Issue signs an access token and stores a fresh refresh token for the user.
func (s *TokenService) Issue(ctx context.Context, user domain.User) (TokenPair, error) {
	accessToken, err := utils.GenerateJWT(s.secret, user.ID, user.Email, string(user.Role), s.accessTTL, s.now())
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken := s.newID()
	if err := s.store.Store(ctx, refreshToken, user.ID, s.refreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessTTL:    s.accessTTL,
		RefreshTTL:   s.refreshTTL,
	}, nil
}

// Verify checks signature and expiry. Expiry failures match ErrTokenExpired.
func (s *TokenService) Verify(token string) (Claims, error) {
	claims, err := utils.ParseJWT(s.secret, token, s.now())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Claims{UserID: claims.UserID, Email: claims.Email, Role: role}, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked whether or not the user still exists.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (TokenPair, domain.User, error) {
	if refreshToken == "" {
		return TokenPair{}, domain.User{}, ErrUserNotFound
	}

	userID, err := s.store.Lookup(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return TokenPair{}, domain.User{}, ErrUserNotFound
		}
		return TokenPair{}, domain.User{}, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if err := s.store.Delete(ctx, refreshToken); err != nil {
		logger.Warn("Failed to revoke rotated refresh token", "error", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return TokenPair{}, domain.User{}, ErrUserNotFound
		}
		return TokenPair{}, domain.User{}, err
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return TokenPair{}, domain.User{}, err
	}

	return pair, user, nil
}

// Revoke deletes a refresh token. Unknown tokens are ignored.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.store.Delete(ctx, refreshToken)
}
