package middleware

import (
	"net/http"

	"storefront/business/auth"

	"github.com/labstack/echo/v4"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetAuthCookies writes both token cookies. Secure is required in production.
func SetAuthCookies(c echo.Context, pair auth.TokenPair, secure bool) {
	c.SetCookie(authCookie(AccessTokenCookie, pair.AccessToken, int(pair.AccessTTL.Seconds()), secure))
	c.SetCookie(authCookie(RefreshTokenCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds()), secure))
}

func ClearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(authCookie(AccessTokenCookie, "", -1, secure))
	c.SetCookie(authCookie(RefreshTokenCookie, "", -1, secure))
}

func authCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// CookieValue returns the named cookie or "".
func CookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
