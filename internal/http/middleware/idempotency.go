package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// Idempotency support for unsafe methods. The middleware validates the
// Idempotency-Key header, stashes the key in the request context, and asks a
// pluggable lookup whether a completed result already exists for the
// (user, comparison, key) tuple. It never serves the cached payload itself;
// the refine handler stays in charge of how a replay is answered.

// HeaderIdempotencyKey is the request header clients send to make retries of
// a refine call safe to deduplicate.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys, unexported and reached through the accessors below.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
// Handlers should use this instead of re-reading the header.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the lookup found a completed prior request for
// this key, meaning downstream components may short-circuit.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions tunes header validation. MaxLen <= 0 defaults to 200;
// a nil Pattern falls back to an RFC 7230 style token class. TTL is the
// lookup's concern, not the header's.
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports whether a successful, unexpired result exists for
// (userID, comparisonID, key) at the given time. Lookup failures should be
// returned as errors and must not block normal processing.
type IdempotencyLookup func(ctx context.Context, userID, comparisonID, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator is a no-op when the header is absent, answers 400 on
// a malformed key, and otherwise stashes the key and marks replay plus
// rate-limit bypass when the lookup finds a stored result. The comparison id
// comes from the :id route param, so replay detection applies to
// POST /comparisons/:id/refine and stays inert on create.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			uid := idemUserID(c)
			comparisonID := c.Param("id")
			if exists, _ := lookup(c.Request.Context(), uid, comparisonID, key, time.Now().UTC()); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}

// idemUserID resolves the same identity the handlers use: auth context
// first, then the X-User-ID header, then the development fallback. Keeping
// these in sync matters, or replay detection would miss header-identified
// users.
func idemUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if h := c.GetHeader("X-User-ID"); h != "" {
		return h
	}
	return "demo-user"
}
