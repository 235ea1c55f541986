package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/jwt"
	"github.com/dropDatabas3/ums/internal/rate"
)

func newGate(t *testing.T) (*auth.Gate, *jwt.Issuer) {
	t.Helper()
	iss, err := jwt.NewIssuer("ums-test", []byte("test-secret-with-enough-entropy!!"), time.Hour)
	require.NoError(t, err)
	return auth.NewGate(iss), iss
}

type recorder struct{ results []string }

func (r *recorder) GateDecision(role, result string) { r.results = append(r.results, role+":"+result) }

func okHandler(seen *auth.AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen, _ = auth.FromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(okHandler(nil), mk("A"), mk("B"), mk("C"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"A", "B", "C"}, order)
}

func TestRequireRole(t *testing.T) {
	gate, iss := newGate(t)
	studentTok, _, err := iss.IssueAccess(7, types.RoleStudent)
	require.NoError(t, err)

	cases := []struct {
		name     string
		header   string
		required types.Role
		status   int
		result   string
	}{
		{"missing", "", types.RoleStudent, http.StatusUnauthorized, "missing_token"},
		{"basic scheme", "Basic abc", types.RoleStudent, http.StatusUnauthorized, "missing_token"},
		{"garbage", "Bearer not.a.jwt", types.RoleStudent, http.StatusUnauthorized, "invalid_token"},
		{"wrong role", "Bearer " + studentTok, types.RoleInstructor, http.StatusForbidden, "forbidden"},
		{"ok", "Bearer " + studentTok, types.RoleStudent, http.StatusOK, "ok"},
		{"ok lowercase scheme", "bearer " + studentTok, types.RoleStudent, http.StatusOK, "ok"},
		{"any role", "Bearer " + studentTok, auth.AnyRole, http.StatusOK, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			var seen auth.AuthContext
			h := Chain(okHandler(&seen), RequireRole(gate, tc.required, rec))

			req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, tc.status, w.Code)
			require.Len(t, rec.results, 1)
			require.Contains(t, rec.results[0], tc.result)
			if tc.status == http.StatusOK {
				require.Equal(t, int64(7), seen.PrincipalID)
				require.Equal(t, types.RoleStudent, seen.Role)
			} else {
				require.Contains(t, w.Body.String(), `"message"`)
			}
			if tc.status == http.StatusUnauthorized {
				require.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var got string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}), WithRequestID())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, got, 36)
	require.Equal(t, got, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, "abc-123", got)
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), WithRecover())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestCORS(t *testing.T) {
	h := Chain(okHandler(nil), WithCORS([]string{"http://localhost:3000/"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeadersAndNoStore(t *testing.T) {
	h := Chain(okHandler(nil), WithSecurityHeaders(), WithNoStore())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	require.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	lim := rate.NewMemoryLimiter(nil, 2, time.Hour)
	h := Chain(okHandler(nil), WithRateLimit(RateLimitConfig{Limiter: lim, KeyFunc: IPRateKey("login", nil)}))

	do := func(remote, xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = remote + ":4711"
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, do("198.51.100.7", "").Code)
	w := do("198.51.100.7", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do("198.51.100.7", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))

	require.Equal(t, http.StatusOK, do("198.51.100.8", "").Code)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	lim := rate.NewMemoryLimiter(nil, 2, time.Hour)
	h := Chain(okHandler(nil), WithRateLimit(RateLimitConfig{Limiter: lim, KeyFunc: IPRateKey("login", nil)}))

	var codes []int
	for i := 1; i <= 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{200, 200, 429, 429, 429, 429, 429, 429, 429, 429}, codes)
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"192.0.2.0/24"})
	require.NoError(t, err)
	lim := rate.NewMemoryLimiter(nil, 1, time.Hour)
	h := Chain(okHandler(nil), WithRateLimit(RateLimitConfig{Limiter: lim, KeyFunc: IPRateKey("login", proxies)}))

	do := func(xff string) int {
		// httptest.NewRequest usa RemoteAddr 192.0.2.1:1234, dentro del CIDR.
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do("1.1.1.1"))
	// el cliente antepone basura; el proxy agrega la IP real a la derecha
	require.Equal(t, http.StatusTooManyRequests, do("9.9.9.9, 1.1.1.1"))
	require.Equal(t, http.StatusTooManyRequests, do("8.8.8.8, 1.1.1.1, 192.0.2.5"))
	require.Equal(t, http.StatusOK, do("2.2.2.2"))
}

func TestClientIP(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"192.0.2.0/24", " 2001:db8::1 ", ""})
	require.NoError(t, err)

	cases := []struct {
		name    string
		proxies *TrustedProxies
		remote  string
		xff     []string
		realIP  string
		want    string
	}{
		{"no proxies ignores headers", nil, "203.0.113.9:80", []string{"1.1.1.1"}, "2.2.2.2", "203.0.113.9"},
		{"untrusted remote ignores headers", proxies, "203.0.113.9:80", []string{"1.1.1.1"}, "", "203.0.113.9"},
		{"trusted remote single hop", proxies, "192.0.2.10:80", []string{"1.1.1.1"}, "", "1.1.1.1"},
		{"right-most untrusted hop", proxies, "192.0.2.10:80", []string{"6.6.6.6, 1.1.1.1, 192.0.2.3"}, "", "1.1.1.1"},
		{"multiple header values", proxies, "192.0.2.10:80", []string{"6.6.6.6", "1.1.1.1"}, "", "1.1.1.1"},
		{"garbage hop falls back to remote", proxies, "192.0.2.10:80", []string{"1.1.1.1, not-an-ip"}, "", "192.0.2.10"},
		{"x-real-ip when no xff", proxies, "192.0.2.10:80", nil, "4.4.4.4", "4.4.4.4"},
		{"invalid x-real-ip", proxies, "192.0.2.10:80", nil, "nope", "192.0.2.10"},
		{"ipv6 proxy", proxies, "[2001:db8::1]:443", []string{"5.5.5.5"}, "", "5.5.5.5"},
		{"remote without port", nil, "203.0.113.9", nil, "", "203.0.113.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for _, v := range tc.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			require.Equal(t, tc.want, tc.proxies.ClientIP(req))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	tp, err := ParseTrustedProxies(nil)
	require.NoError(t, err)
	require.Nil(t, tp)

	tp, err = ParseTrustedProxies([]string{"  ", ""})
	require.NoError(t, err)
	require.Nil(t, tp)

	_, err = ParseTrustedProxies([]string{"10.0.0.0/8", "10.0.0.300"})
	require.ErrorContains(t, err, "10.0.0.300")

	_, err = ParseTrustedProxies([]string{"10.0.0.0/33"})
	require.Error(t, err)
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := Chain(okHandler(nil), WithRateLimit(RateLimitConfig{Limiter: failingLimiter{}}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLoggingCarriesIdentity(t *testing.T) {
	gate, iss := newGate(t)
	tok, _, err := iss.IssueAccess(3, types.RoleAdmin)
	require.NoError(t, err)

	var id *identity
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ = r.Context().Value(identityKey{}).(*identity)
	}), WithRequestID(), WithLogging(), RequireRole(gate, types.RoleAdmin, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, id)
	require.True(t, id.ok)
	require.Equal(t, int64(3), id.ac.PrincipalID)
}
