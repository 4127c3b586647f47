// Package guard screens requests before they reach sensitive handlers: bot
// user agents, request rate per client and the quality of a submitted email
// address.
package guard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
)

type Reason string

const (
	ReasonBot              Reason = "bot"
	ReasonRateLimit        Reason = "rate_limit"
	ReasonInvalidEmail     Reason = "invalid_email"
	ReasonDisposableEmail  Reason = "disposable_email"
	ReasonNoMXRecords      Reason = "no_mx_records"
	ReasonFreeEmailBlocked Reason = "free_email"
)

var messages = map[Reason]string{
	ReasonBot:              "Bot activity detected",
	ReasonRateLimit:        "Too many requests! Please try again later",
	ReasonInvalidEmail:     "Invalid email",
	ReasonDisposableEmail:  "Disposable email address are not allowed",
	ReasonNoMXRecords:      "Email domain does not have valid MX Records! Please try with different email",
	ReasonFreeEmailBlocked: "Please use a non-free email address",
}

// Denial is the cause wrapped in the error returned by Protect.
type Denial struct {
	Rule   domain.GuardRule
	Reason Reason
}

func (d *Denial) Error() string {
	return fmt.Sprintf("guard %s denied: %s", d.Rule, d.Reason)
}

// Rule is one protection profile. Max requests are allowed per Interval
// per client IP, refilled continuously.
type Rule struct {
	Interval           time.Duration
	Max                int
	DetectBot          bool
	AllowSearchEngines bool
	ValidateEmail      bool
	BlockFreeEmail     bool
}

func DefaultRules(blockFreeEmail bool) map[domain.GuardRule]Rule {
	return map[domain.GuardRule]Rule{
		domain.GuardSignUp:     {Interval: time.Minute, Max: 5, DetectBot: true, ValidateEmail: true},
		domain.GuardSignIn:     {Interval: time.Minute, Max: 3, ValidateEmail: true},
		domain.GuardAdminWrite: {Interval: 5 * time.Minute, Max: 10, DetectBot: true, AllowSearchEngines: true},
		domain.GuardCoupon:     {Interval: 5 * time.Minute, Max: 5, DetectBot: true},
		domain.GuardPrePayment: {Interval: 10 * time.Minute, Max: 5, DetectBot: true, ValidateEmail: true, BlockFreeEmail: blockFreeEmail},
	}
}

type MXLookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Guard struct {
	rules    map[domain.GuardRule]Rule
	validate *validator.Validate
	lookupMX MXLookupFunc
	now      func() time.Time

	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
}

// New builds a guard. A nil lookupMX disables the MX record check.
func New(rules map[domain.GuardRule]Rule, validate *validator.Validate, lookupMX MXLookupFunc) *Guard {
	return &Guard{
		rules:    rules,
		validate: validate,
		lookupMX: lookupMX,
		now:      time.Now,
		limiters: make(map[string]*limiterEntry),
	}
}

// Protect applies the named rule to req. A denial is returned as an
// *apperror.Error carrying 403, or 429 for rate limiting, and wraps *Denial.
func (g *Guard) Protect(ctx context.Context, req domain.GuardRequest) error {
	rule, ok := g.rules[req.Rule]
	if !ok {
		return fmt.Errorf("unknown guard rule %q", req.Rule)
	}

	if rule.DetectBot && IsBot(req.UserAgent, rule.AllowSearchEngines) {
		return g.deny(req.Rule, ReasonBot)
	}

	if rule.Max > 0 && !g.allow(req.Rule, req.ClientIP, rule) {
		return g.deny(req.Rule, ReasonRateLimit)
	}

	if rule.ValidateEmail {
		if reason, ok := g.checkEmail(ctx, req.Email, rule.BlockFreeEmail); !ok {
			return g.deny(req.Rule, reason)
		}
	}

	return nil
}

func (g *Guard) deny(rule domain.GuardRule, reason Reason) error {
	metrics.GuardDenials.WithLabelValues(string(rule), string(reason)).Inc()

	status := http.StatusForbidden
	if reason == ReasonRateLimit {
		status = http.StatusTooManyRequests
	}
	return apperror.Upstream(status, messages[reason], &Denial{Rule: rule, Reason: reason})
}

func (g *Guard) allow(rule domain.GuardRule, ip string, r Rule) bool {
	now := g.now()
	key := string(rule) + "|" + ip

	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Sub(g.lastSweep) > time.Minute {
		g.sweep(now)
	}

	e, ok := g.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(r.Interval/time.Duration(r.Max)), r.Max)}
		g.limiters[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// sweep drops limiters idle long enough to have refilled completely.
func (g *Guard) sweep(now time.Time) {
	for key, e := range g.limiters {
		rule := domain.GuardRule(key[:strings.IndexByte(key, '|')])
		if now.Sub(e.lastSeen) > g.rules[rule].Interval {
			delete(g.limiters, key)
		}
	}
	g.lastSweep = now
}

func (g *Guard) checkEmail(ctx context.Context, email string, blockFree bool) (Reason, bool) {
	email = strings.TrimSpace(email)
	if err := g.validate.Var(email, "required,email"); err != nil {
		return ReasonInvalidEmail, false
	}

	domainPart := strings.ToLower(email[strings.LastIndexByte(email, '@')+1:])
	if _, ok := disposableDomains[domainPart]; ok {
		return ReasonDisposableEmail, false
	}
	if blockFree {
		if _, ok := freeDomains[domainPart]; ok {
			return ReasonFreeEmailBlocked, false
		}
	}

	if g.lookupMX == nil {
		return "", true
	}

	records, err := g.lookupMX(ctx, domainPart)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return ReasonNoMXRecords, false
		}
		// Resolver trouble is not the customer's fault.
		logger.Warn("MX lookup failed, allowing email", "domain", domainPart, "error", err)
		return "", true
	}
	if len(records) == 0 {
		return ReasonNoMXRecords, false
	}

	return "", true
}

var botMarkers = []string{
	"bot", "crawler", "spider", "slurp", "curl/", "wget/", "python-requests",
	"python-urllib", "go-http-client", "java/", "okhttp", "httpclient",
	"headlesschrome", "phantomjs", "selenium", "puppeteer", "playwright", "scrapy",
}

var searchEngineMarkers = []string{
	"googlebot", "bingbot", "duckduckbot", "yandexbot", "baiduspider", "applebot",
}

// IsBot reports whether ua looks automated. An empty user agent counts as a
// bot.
func IsBot(ua string, allowSearchEngines bool) bool {
	ua = strings.ToLower(strings.TrimSpace(ua))
	if ua == "" {
		return true
	}

	if allowSearchEngines {
		for _, m := range searchEngineMarkers {
			if strings.Contains(ua, m) {
				return false
			}
		}
	}

	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}
