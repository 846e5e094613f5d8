package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkfolio/pkg/app"
	"github.com/wadjakorntonsri/linkfolio/pkg/config"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
)

func TestIntegration(t *testing.T) {
	// 1. Setup application on an in-memory database
	cfg := &config.Config{
		DatabaseURL:     "file:memdb1?mode=memory&cache=shared",
		JWTSecret:       "e2e-secret",
		BlobDir:         t.TempDir(),
		FingerprintSalt: "e2e",
		FrontendURL:     "/onboarding",
	}
	application, err := app.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to init app: %v", err)
	}
	defer application.Close()

	server := httptest.NewServer(application.Handler)
	defer server.Close()

	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	// 2. Register the account the way the OAuth callback does
	profile, err := application.Profiles.Register(context.Background(), "bo@example.com")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := handler.IssueToken([]byte(cfg.JWTSecret), profile.ID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	patch := func(step string, payload domain.OnboardingPayload, skip bool) domain.OnboardingResult {
		t.Helper()
		body, _ := json.Marshal(handler.UpdateOnboardingRequest{Step: step, Payload: payload, Skip: skip})
		req, _ := http.NewRequest(http.MethodPatch, server.URL+"/api/v1/onboarding", bytes.NewReader(body))
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("PATCH %s: %v", step, err)
		}
		defer resp.Body.Close()
		var res domain.OnboardingResult
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			t.Fatalf("decode %s: %v", step, err)
		}
		return res
	}

	// TEST 1: Walk the onboarding steps
	if res := patch("name", domain.OnboardingPayload{GivenName: "Bo", FamilyName: "Bo"}, false); res.Step != domain.StepUsername {
		t.Errorf("Expected username step, got %+v", res)
	}
	if res := patch("username", domain.OnboardingPayload{Username: "bobo"}, false); res.Step != domain.StepBio {
		t.Errorf("Expected bio step, got %+v", res)
	}
	patch("bio", domain.OnboardingPayload{Bio: "Hello there"}, false)
	patch("links", domain.OnboardingPayload{Links: []domain.LinkChange{{Label: "Site", URL: "example.com"}}}, false)
	if res := patch("avatar", domain.OnboardingPayload{}, true); res.Outcome != domain.OutcomeCompleted {
		t.Errorf("Expected completed, got %+v", res)
	}

	// TEST 2: Public profile
	resp, err := client.Get(server.URL + "/u/bobo")
	if err != nil {
		t.Fatal(err)
	}
	var public domain.Profile
	json.NewDecoder(resp.Body).Decode(&public)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Public profile expected 200, got %d", resp.StatusCode)
	}
	if public.Bio != "Hello there" || len(public.Links) != 1 {
		t.Fatalf("Unexpected public profile: %+v", public)
	}

	// TEST 3: Redirect
	linkURL := server.URL + "/u/bobo/links/" + strconv.FormatInt(public.Links[0].ID, 10)
	resp, err = client.Get(linkURL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("Expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "https://example.com" {
		t.Errorf("Expected redirect to https://example.com, got %s", loc)
	}

	// TEST 4: Counters
	updated, err := application.Repo.GetByID(context.Background(), profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Visits != 1 {
		t.Errorf("Expected 1 visit, got %d", updated.Visits)
	}

	// TEST 5: Metrics
	resp, err = client.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "linkfolio_engagement_events_total") {
		t.Errorf("metrics output missing engagement series")
	}
}
