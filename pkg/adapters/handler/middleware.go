package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/config"
)

type contextKey string

const (
	profileIDKey contextKey = "profile_id"
	requestIDKey contextKey = "request_id"

	authCookieName = "auth_token"
)

type Middleware struct {
	jwtSecret []byte
	logger    *zap.Logger
}

func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtSecret: []byte(cfg.JWTSecret),
		logger:    logger,
	}
}

// AuthMiddleware verifies the JWT token from the cookie
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := m.profileFromCookie(r)
		if !ok {
			if isAPIRequest(r) {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			} else {
				http.Redirect(w, r, "/auth/google/login", http.StatusTemporaryRedirect)
			}
			return
		}

		ctx := context.WithValue(r.Context(), profileIDKey, profileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth identifies a signed-in viewer on public pages without ever rejecting the request.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if profileID, ok := m.profileFromCookie(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), profileIDKey, profileID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger tags each request with an X-Request-ID and logs it once served.
func (m *Middleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))

		m.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (m *Middleware) profileFromCookie(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return 0, false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, false
	}

	profileID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || profileID <= 0 {
		return 0, false
	}
	return profileID, true
}

// ProfileIDFromContext returns the signed-in profile, or 0 for anonymous requests.
func ProfileIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(profileIDKey).(int64)
	return id
}

// IssueToken signs the session token stored in the auth cookie.
func IssueToken(secret []byte, profileID int64, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(profileID, 10),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return token, expiresAt, err
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
