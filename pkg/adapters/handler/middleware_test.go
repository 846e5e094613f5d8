package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/config"
)

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "testservlet",
	}
	mw := NewMiddleware(cfg, zap.NewNop())

	tests := []struct {
		name           string
		path           string
		cookieName     string
		cookieValue    string
		expectedStatus int
		expectedID     int64
	}{
		{
			name:           "No Cookie - API",
			path:           "/api/v1/onboarding",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "No Cookie - Browser",
			path:           "/onboarding",
			expectedStatus: http.StatusTemporaryRedirect,
		},
		{
			name:           "Invalid Cookie - API",
			path:           "/api/v1/onboarding",
			cookieName:     "auth_token",
			cookieValue:    "invalid",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Non-numeric Subject - API",
			path:           "/api/v1/onboarding",
			cookieName:     "auth_token",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, "test@example.com", 5*time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Cookie - API",
			path:           "/api/v1/onboarding",
			cookieName:     "auth_token",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, "42", -time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Secret - API",
			path:           "/api/v1/onboarding",
			cookieName:     "auth_token",
			cookieValue:    generateTestToken(t, "other", "42", 5*time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Cookie - API",
			path:           "/api/v1/onboarding",
			cookieName:     "auth_token",
			cookieValue:    generateTestToken(t, cfg.JWTSecret, "42", 5*time.Minute),
			expectedStatus: http.StatusOK,
			expectedID:     42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookieName != "" {
				req.AddCookie(&http.Cookie{Name: tt.cookieName, Value: tt.cookieValue})
			}

			rr := httptest.NewRecorder()
			var seen int64
			handler := mw.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = ProfileIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			handler.ServeHTTP(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, tt.expectedStatus)
			}
			if seen != tt.expectedID {
				t.Errorf("profile id in context: got %v want %v", seen, tt.expectedID)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testservlet"}
	mw := NewMiddleware(cfg, zap.NewNop())

	var seen int64
	handler := mw.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ProfileIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/u/bobo", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || seen != 0 {
		t.Errorf("anonymous: got status %v id %v", rr.Code, seen)
	}

	token, _, err := IssueToken([]byte(cfg.JWTSecret), 7, time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	req = httptest.NewRequest("GET", "/u/bobo", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen != 7 {
		t.Errorf("signed in: got id %v want 7", seen)
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	mw := NewMiddleware(&config.Config{}, zap.NewNop())
	handler := mw.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Value(requestIDKey).(string); !ok {
			t.Error("request id missing from context")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc" {
		t.Errorf("X-Request-ID: got %q want abc", got)
	}
}

func generateTestToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	expirationTime := time.Now().Add(ttl)
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expirationTime),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return tokenString
}

func authCookie(t *testing.T, secret string, profileID int64) *http.Cookie {
	t.Helper()
	return &http.Cookie{Name: authCookieName, Value: generateTestToken(t, secret, strconv.FormatInt(profileID, 10), time.Hour)}
}
