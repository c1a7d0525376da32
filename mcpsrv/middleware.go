package mcpsrv

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const allowHeaders = "Content-Type, Accept, Authorization, X-API-Key, Mcp-Protocol-Version, Mcp-Session-Id"

// WrapMCPHandler guards next with, in order: the origin allow-list (and
// CORS preflight), a shared token-bucket rate limit and the API key check.
func WrapMCPHandler(next http.Handler, cfg Config, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			if _, ok := allowedOrigins[origin]; !ok {
				log.Debug("origin rejected", zap.String("origin", origin))
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		if !limiter.Allow() {
			log.Debug("rate limited", zap.String("remote", r.RemoteAddr))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		if cfg.APIKey != "" && !validAPIKey(r, cfg.APIKey) {
			log.Debug("unauthorized request", zap.String("remote", r.RemoteAddr))
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// validAPIKey accepts the key from X-API-Key or an Authorization bearer token.
func validAPIKey(r *http.Request, expected string) bool {
	if secureEqual(strings.TrimSpace(r.Header.Get("X-API-Key")), expected) {
		return true
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	return secureEqual(strings.TrimSpace(token), expected)
}

func secureEqual(a, b string) bool {
	if a == "" || len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
