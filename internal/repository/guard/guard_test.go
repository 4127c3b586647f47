package guard

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"storefront/domain"
	"storefront/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Safari/605.1.15"

func fakeMX(ctx context.Context, host string) ([]*net.MX, error) {
	switch host {
	case "nomx.test":
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	case "flaky.test":
		return nil, &net.DNSError{Err: "i/o timeout", Name: host, IsTimeout: true}
	case "empty.test":
		return []*net.MX{}, nil
	}
	return []*net.MX{{Host: "mx." + host, Pref: 10}}, nil
}

func newGuard(blockFree bool) *Guard {
	return New(DefaultRules(blockFree), validator.New(), fakeMX)
}

func denialOf(t *testing.T, err error) (*Denial, *apperror.Error) {
	t.Helper()
	require.Error(t, err)
	var d *Denial
	require.True(t, errors.As(err, &d), "expected a guard denial, got %v", err)
	return d, apperror.From(err)
}

func TestEmailChecks(t *testing.T) {
	tests := []struct {
		email  string
		reason Reason
		msg    string
	}{
		{"not-an-email", ReasonInvalidEmail, "Invalid email"},
		{"", ReasonInvalidEmail, "Invalid email"},
		{"joe@mailinator.com", ReasonDisposableEmail, "Disposable email address are not allowed"},
		{"joe@YopMail.com", ReasonDisposableEmail, "Disposable email address are not allowed"},
		{"joe@nomx.test", ReasonNoMXRecords, "Email domain does not have valid MX Records! Please try with different email"},
		{"joe@empty.test", ReasonNoMXRecords, "Email domain does not have valid MX Records! Please try with different email"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := newGuard(false).Protect(context.Background(), domain.GuardRequest{
				Rule: domain.GuardSignUp, ClientIP: "10.0.0.1", UserAgent: browserUA, Email: tt.email,
			})
			d, appErr := denialOf(t, err)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, http.StatusForbidden, appErr.Status)
			assert.Equal(t, tt.msg, appErr.PublicMessage())
		})
	}
}

func TestEmailAllowed(t *testing.T) {
	g := newGuard(false)
	for _, email := range []string{"jane@example.com", "jane@flaky.test", "jane@gmail.com"} {
		err := g.Protect(context.Background(), domain.GuardRequest{
			Rule: domain.GuardPrePayment, ClientIP: email, UserAgent: browserUA, Email: email,
		})
		assert.NoError(t, err, email)
	}
}

func TestFreeEmailBlockedWhenEnabled(t *testing.T) {
	err := newGuard(true).Protect(context.Background(), domain.GuardRequest{
		Rule: domain.GuardPrePayment, ClientIP: "10.0.0.1", UserAgent: browserUA, Email: "jane@gmail.com",
	})
	d, _ := denialOf(t, err)
	assert.Equal(t, ReasonFreeEmailBlocked, d.Reason)
}

func TestNoMXLookupWhenDisabled(t *testing.T) {
	g := New(DefaultRules(false), validator.New(), nil)
	err := g.Protect(context.Background(), domain.GuardRequest{
		Rule: domain.GuardSignUp, ClientIP: "10.0.0.1", UserAgent: browserUA, Email: "joe@nomx.test",
	})
	assert.NoError(t, err)
}

func TestBotDetection(t *testing.T) {
	g := newGuard(false)

	for _, ua := range []string{"", "curl/8.4.0", "python-requests/2.31", "Mozilla/5.0 HeadlessChrome/120"} {
		err := g.Protect(context.Background(), domain.GuardRequest{Rule: domain.GuardCoupon, ClientIP: "10.0.0.2", UserAgent: ua})
		d, appErr := denialOf(t, err)
		assert.Equal(t, ReasonBot, d.Reason, ua)
		assert.Equal(t, "Bot activity detected", appErr.PublicMessage())
	}

	assert.False(t, IsBot("Mozilla/5.0 (compatible; Googlebot/2.1)", true))
	assert.True(t, IsBot("Mozilla/5.0 (compatible; Googlebot/2.1)", false))
	assert.False(t, IsBot(browserUA, false))
}

func TestSignInSkipsBotCheck(t *testing.T) {
	err := newGuard(false).Protect(context.Background(), domain.GuardRequest{
		Rule: domain.GuardSignIn, ClientIP: "10.0.0.3", UserAgent: "", Email: "jane@example.com",
	})
	assert.NoError(t, err)
}

func TestRateLimitPerClient(t *testing.T) {
	g := newGuard(false)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	req := domain.GuardRequest{Rule: domain.GuardSignIn, ClientIP: "10.0.0.4", UserAgent: browserUA, Email: "jane@example.com"}
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Protect(context.Background(), req), "attempt %d", i+1)
	}

	err := g.Protect(context.Background(), req)
	d, appErr := denialOf(t, err)
	assert.Equal(t, ReasonRateLimit, d.Reason)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Status)
	assert.Equal(t, "Too many requests! Please try again later", appErr.PublicMessage())

	other := req
	other.ClientIP = "10.0.0.5"
	assert.NoError(t, g.Protect(context.Background(), other))

	// One token refills every 20 seconds for 3 per minute.
	now = now.Add(21 * time.Second)
	assert.NoError(t, g.Protect(context.Background(), req))
}

func TestSweepDropsIdleLimiters(t *testing.T) {
	g := newGuard(false)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	req := domain.GuardRequest{Rule: domain.GuardSignIn, ClientIP: "10.0.0.6", UserAgent: browserUA, Email: "jane@example.com"}
	require.NoError(t, g.Protect(context.Background(), req))
	assert.Len(t, g.limiters, 1)

	now = now.Add(2 * time.Minute)
	req.ClientIP = "10.0.0.7"
	require.NoError(t, g.Protect(context.Background(), req))
	assert.Len(t, g.limiters, 1)
}

func TestUnknownRule(t *testing.T) {
	err := newGuard(false).Protect(context.Background(), domain.GuardRequest{Rule: "nope"})
	assert.Error(t, err)
}
