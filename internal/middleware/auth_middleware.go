package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/business/auth"
	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxEmail  = "email"
)

var (
	errMissingToken  = errors.New("access token is not present")
	errRefreshFailed = errors.New("refresh failed")
)

// TokenVerifier is the part of the token service the gate needs.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, domain.User, error)
}

type AuthGate struct {
	tokens    TokenVerifier
	routes    *RouteTable
	secure    bool
	loginPath string
}

func NewAuthGate(tokens TokenVerifier, routes *RouteTable, secure bool, loginPath string) *AuthGate {
	return &AuthGate{
		tokens:    tokens,
		routes:    routes,
		secure:    secure,
		loginPath: loginPath,
	}
}

// Middleware authenticates the caller for every non-public route and enforces
// the route's role requirement.
func (g *AuthGate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access := g.routes.Lookup(c.Request().Method, c.Path())
			if access.Level == LevelPublic {
				return next(c)
			}

			claims, err := g.authenticate(c)
			if err != nil {
				return g.deny(c, err)
			}

			SetIdentity(c, claims)

			if !Authorize(claims.Role, access) {
				return apperror.Forbidden(fmt.Sprintf("Access denied! Require %s role!", access.Role), nil)
			}

			return next(c)
		}
	}
}

// authenticate verifies the access token and, when it is missing or expired,
// attempts exactly one refresh exchange.
func (g *AuthGate) authenticate(c echo.Context) (auth.Claims, error) {
	token := accessToken(c)
	if token != "" {
		claims, err := g.tokens.Verify(token)
		if err == nil {
			return claims, nil
		}
		if !errors.Is(err, auth.ErrTokenExpired) {
			return auth.Claims{}, err
		}
	}

	refreshToken := CookieValue(c, RefreshTokenCookie)
	if refreshToken == "" {
		if token == "" {
			return auth.Claims{}, errMissingToken
		}
		return auth.Claims{}, auth.ErrTokenExpired
	}

	pair, user, err := g.tokens.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failed").Inc()
		logger.WithCtx(c.Request().Context()).Info("Refresh on request failed", "error", err)
		ClearAuthCookies(c, g.secure)
		return auth.Claims{}, fmt.Errorf("%w: %v", errRefreshFailed, err)
	}

	metrics.TokenRefreshes.WithLabelValues("ok").Inc()
	SetAuthCookies(c, pair, g.secure)

	return auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (g *AuthGate) deny(c echo.Context, err error) error {
	if wantsHTML(c.Request()) {
		return c.Redirect(http.StatusSeeOther, g.loginPath)
	}

	switch {
	case errors.Is(err, errMissingToken):
		return apperror.Auth("Access token is not present", err)
	case errors.Is(err, errRefreshFailed):
		return apperror.Auth("Session expired, please log in again", err)
	default:
		return apperror.Auth("Invalid access token", err)
	}
}

func accessToken(c echo.Context) string {
	if v := CookieValue(c, AccessTokenCookie); v != "" {
		return v
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// SetIdentity stores the authenticated caller on the request context.
func SetIdentity(c echo.Context, claims auth.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxEmail, claims.Email)
}

// UserID returns the authenticated caller set by the gate.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ctxUserID).(uint)
	return id, ok && id != 0
}

func Role(c echo.Context) domain.Role {
	role, _ := c.Get(ctxRole).(domain.Role)
	return role
}

func Email(c echo.Context) string {
	email, _ := c.Get(ctxEmail).(string)
	return email
}
