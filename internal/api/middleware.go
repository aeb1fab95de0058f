package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"sharely/internal/metrics"

	"github.com/google/uuid"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware tags every request with an id, logs its outcome
// and records request metrics.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		dur := time.Since(start)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")

		metrics.ObserveHTTP(r.Method, r.URL.Path, fmt.Sprintf("%d", recorder.status), dur.Seconds())
	})
}

// rateLimitMiddleware rejects callers exceeding the configured limit.
// Requests are keyed by the acting user when the header is present,
// otherwise by remote host.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.RateLimit.Enabled || s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(userHeader)
		if key == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err == nil && host != "" {
				key = host
			} else {
				key = "unknown"
			}
		}

		allowed, err := s.limiter.Allow(r.Context(), key)
		if err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("rate limit check error")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			metrics.IncRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
