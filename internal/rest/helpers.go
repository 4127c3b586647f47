package rest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"storefront/domain"
	"storefront/internal/middleware"
	"storefront/pkg/apperror"

	"github.com/labstack/echo/v4"
)

const defaultTimeout = 10 * time.Second

// AbuseGuard screens requests before any state changes.
type AbuseGuard interface {
	Protect(ctx context.Context, req domain.GuardRequest) error
}

func currentUserID(c echo.Context) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperror.Auth("Unauthenticated", nil)
	}
	return id, nil
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid id", err)
	}
	return uint(id), nil
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperror.Validation("Invalid request body", err)
	}
	return nil
}

func guardRequest(c echo.Context, rule domain.GuardRule, email string) domain.GuardRequest {
	return domain.GuardRequest{
		Rule:      rule,
		ClientIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Email:     strings.TrimSpace(email),
	}
}
