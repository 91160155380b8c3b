// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package fake

import (
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sphereio/customer-import/utils/logging"
	"golang.org/x/time/rate"
)

var logger = logging.Logger("client/fake")

// Log field keys for structured logging.
const (
	logFieldPanic    = "panic"
	logFieldStack    = "stack"
	logFieldMethod   = "method"
	logFieldPath     = "path"
	logFieldStatus   = "status"
	logFieldDuration = "duration"
	logFieldClient   = "client"
)

// Error message returned when a handler panics. Details are only logged.
const internalServerErrorMsg = "internal server error"

// WithRateLimit limits every client to rps requests per second with the given
// burst. Clients are told apart by their bearer token, or by address when
// they send none. Rejected requests get a 429 error envelope.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		s.limiter = newClientLimiter(rps, burst)
	}
}

// recoverPanics turns a panicking handler into a 500 error envelope.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}

			logger.Error("panic recovered in handler",
				logFieldPanic, p,
				logFieldStack, string(debug.Stack()),
				logFieldMethod, r.Method,
				logFieldPath, r.URL.Path,
			)

			writeError(w, http.StatusInternalServerError, "General", internalServerErrorMsg)
		}()

		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs every request at debug level.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Debug("request served",
			logFieldMethod, r.Method,
			logFieldPath, r.URL.Path,
			logFieldStatus, rec.status,
			logFieldDuration, time.Since(start),
		)
	})
}

// clientLimiter keeps one token bucket per client.
type clientLimiter struct {
	rps   rate.Limit
	burst int

	limiters sync.Map // client id -> *rate.Limiter
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}

	return &clientLimiter{rps: rate.Limit(rps), burst: burst}
}

func (l *clientLimiter) allow(clientID string) bool {
	limiter, _ := l.limiters.LoadOrStore(clientID, rate.NewLimiter(l.rps, l.burst))

	return limiter.(*rate.Limiter).Allow() //nolint:forcetypeassert
}

// clientID identifies the caller of r for rate limiting.
func clientID(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return auth
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func (s *Server) limitRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)

			return
		}

		id := clientID(r)
		if !s.limiter.allow(id) {
			s.mu.Lock()
			s.rateLimited++
			s.mu.Unlock()

			logger.Debug("request rate limited", logFieldClient, id, logFieldPath, r.URL.Path)

			writeError(w, http.StatusTooManyRequests, "TooManyRequests", "rate limit exceeded")

			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimited returns how many requests were rejected by WithRateLimit.
func (s *Server) RateLimited() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rateLimited
}
