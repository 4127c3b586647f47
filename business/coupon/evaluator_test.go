package coupon

import (
	"testing"
	"time"

	"storefront/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func coupon(code string, pct, used, limit int) domain.Coupon {
	return domain.Coupon{Code: code, DiscountPercent: pct, StartDate: start, EndDate: end, UsageCount: used, UsageLimit: limit}
}

func TestEvaluate(t *testing.T) {
	catalog := []domain.Coupon{coupon("SAVE20", 20, 0, 10)}
	inside := start.Add(24 * time.Hour)

	tests := []struct {
		name    string
		code    string
		now     time.Time
		wantErr error
	}{
		{"valid", "SAVE20", inside, nil},
		{"surrounding whitespace", "  SAVE20 ", inside, nil},
		{"at start", "SAVE20", start, nil},
		{"just before end", "SAVE20", end.Add(-time.Nanosecond), nil},
		{"before start", "SAVE20", start.Add(-time.Second), ErrOutOfWindow},
		{"at end", "SAVE20", end, ErrOutOfWindow},
		{"after end", "SAVE20", end.Add(time.Hour), ErrOutOfWindow},
		{"unknown", "SAVE30", inside, ErrCodeNotFound},
		{"case sensitive", "save20", inside, ErrCodeNotFound},
		{"empty", "", inside, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Evaluate(tt.code, catalog, tt.now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 20, c.DiscountPercent)
		})
	}
}

func TestEvaluateLimitReachedRegardlessOfDate(t *testing.T) {
	catalog := []domain.Coupon{coupon("SPENT", 10, 5, 5)}

	for _, now := range []time.Time{start.Add(-time.Hour), start.Add(time.Hour), end, end.Add(time.Hour)} {
		_, err := Evaluate("SPENT", catalog, now)
		assert.ErrorIs(t, err, ErrLimitReached, now.String())
	}

	catalog[0].UsageCount = 6
	_, err := Evaluate("SPENT", catalog, start.Add(time.Hour))
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	first := coupon("DUP", 10, 0, 10)
	first.ID = 1
	second := coupon("DUP", 50, 0, 10)
	second.ID = 2
	now := start.Add(time.Hour)

	for i := 0; i < 5; i++ {
		c, err := Evaluate("DUP", []domain.Coupon{first, second}, now)
		require.NoError(t, err)
		assert.Equal(t, uint(1), c.ID)
	}

	// A spent first match is reported even when a later one is usable.
	first.UsageCount = 10
	_, err := Evaluate("DUP", []domain.Coupon{first, second}, now)
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestReject(t *testing.T) {
	assert.EqualError(t, Reject(ErrCodeNotFound), "Invalid Coupon code")
	assert.EqualError(t, Reject(ErrOutOfWindow), "Coupon is not valid in this time or expired coupon")
	assert.EqualError(t, Reject(ErrLimitReached), "Coupon has reached its usage limit! Please try a diff coupon")
	assert.ErrorIs(t, Reject(ErrLimitReached), ErrLimitReached)
}
