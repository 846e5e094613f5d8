package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wadjakorntonsri/linkfolio/pkg/config"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

const sessionTTL = 24 * time.Hour

type AuthHandler struct {
	oauthConfig   *oauth2.Config
	profiles      ports.ProfileService
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	isProduction  bool
	logger        *zap.Logger
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, profiles ports.ProfileService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		profiles:      profiles,
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
		logger:        logger.With(zap.String("component", "auth")),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := h.generateStateOauthCookie(w)
	url := h.oauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback completes the Google login. The first sign-in registers an empty profile that then
// goes through onboarding.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	log := requestLog(h.logger, r)

	oauthState, err := r.Cookie("oauthstate")
	if err != nil {
		log.Warn("callback: missing oauthstate cookie", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	if r.FormValue("state") != oauthState.Value {
		log.Warn("callback: invalid oauth state")
		writeError(w, http.StatusBadRequest, "INVALID_STATE", "invalid oauth google state")
		return
	}

	code := r.FormValue("code")
	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Error("callback: code exchange failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "code exchange failed")
		return
	}

	googleUser, err := h.fetchUser(r.Context(), token)
	if err != nil {
		log.Error("callback: failed getting user info", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed getting user info")
		return
	}

	if len(h.allowedEmails) > 0 && !slices.Contains(h.allowedEmails, googleUser.Email) {
		log.Warn("callback: email not in allowlist", zap.String("email", googleUser.Email))
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Access denied: your email is not in the allowlist")
		return
	}

	profile, err := h.profiles.Register(r.Context(), googleUser.Email)
	if err != nil {
		log.Error("callback: registering profile failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	tokenString, expiresAt, err := IssueToken(h.jwtSecret, profile.ID, sessionTTL)
	if err != nil {
		log.Error("callback: failed signing JWT", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    tokenString,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("login successful", zap.Int64("profile_id", profile.ID))
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchUser(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	client := h.oauthConfig.Client(ctx, token)
	response, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var user GoogleUser
	if err := json.NewDecoder(response.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	cookie := http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
	return state
}
