package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/business/auth"
	"storefront/business/user"
	"storefront/domain"
	"storefront/internal/middleware"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, in user.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, user domain.User) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, domain.User, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type UserHandler struct {
	userService UserService
	tokens      TokenIssuer
	guard       AbuseGuard
	validator   *validator.Validate
	secure      bool
	timeout     time.Duration
}

func NewUserHandler(userService UserService, tokens TokenIssuer, guard AbuseGuard, validate *validator.Validate, secureCookies bool) *UserHandler {
	return &UserHandler{
		userService: userService,
		tokens:      tokens,
		guard:       guard,
		validator:   validate,
		secure:      secureCookies,
		timeout:     defaultTimeout,
	}
}

type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userView struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func viewOf(u domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (h *UserHandler) Register(c echo.Context) error {
	var req UserRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.guard.Protect(ctx, guardRequest(c, domain.GuardSignUp, req.Email)); err != nil {
		return err
	}

	created, err := h.userService.Register(ctx, user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"userId":  created.ID,
	})
}

func (h *UserHandler) Login(c echo.Context) error {
	var req UserLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(&req); err != nil {
		return apperror.Validation("Email and password are required", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.guard.Protect(ctx, guardRequest(c, domain.GuardSignIn, req.Email)); err != nil {
		return err
	}

	u, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	pair, err := h.tokens.Issue(ctx, u)
	if err != nil {
		logger.Error("Failed to issue tokens", "user_id", u.ID, "error", err)
		return err
	}
	middleware.SetAuthCookies(c, pair, h.secure)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"user":    viewOf(u),
	})
}

// RefreshToken rotates both cookies using the refresh cookie.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	refreshToken := middleware.CookieValue(c, middleware.RefreshTokenCookie)
	if refreshToken == "" {
		return apperror.Auth("Invalid refresh token", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pair, u, err := h.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		middleware.ClearAuthCookies(c, h.secure)
		if errors.Is(err, auth.ErrUserNotFound) {
			return apperror.Auth("User not found", err)
		}
		return err
	}
	middleware.SetAuthCookies(c, pair, h.secure)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Refresh token refreshed successfully",
		"user":    viewOf(u),
	})
}

func (h *UserHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.tokens.Revoke(ctx, middleware.CookieValue(c, middleware.RefreshTokenCookie)); err != nil {
		logger.Warn("Failed to revoke refresh token on logout", "error", err)
	}
	middleware.ClearAuthCookies(c, h.secure)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logout successful",
	})
}

func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    viewOf(u),
	})
}
