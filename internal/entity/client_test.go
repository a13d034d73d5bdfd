package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestVerify_Recognized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "acme widgets" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("query"))
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key on query")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"itemListElement": [
				{
					"result": {
						"name": "Acme Widgets",
						"@type": ["Corporation", "Organization"],
						"description": "Widget maker",
						"detailedDescription": {"articleBody": "Acme Widgets is a maker of widgets."}
					},
					"resultScore": 154.2
				}
			]
		}`)
	}))
	defer srv.Close()

	client, err := New("test-key", WithKGBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	verification, err := client.Verify(context.Background(), "acme widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !verification.Recognized {
		t.Fatal("expected entity to be recognized")
	}
	if verification.Name != "Acme Widgets" {
		t.Errorf("unexpected name %q", verification.Name)
	}
	if len(verification.Types) != 2 || verification.Types[0] != "Corporation" {
		t.Errorf("unexpected types %v", verification.Types)
	}
	if verification.Score != 154.2 {
		t.Errorf("unexpected score %v", verification.Score)
	}
	if !strings.Contains(verification.Description, "maker of widgets") {
		t.Errorf("expected the detailed description, got %q", verification.Description)
	}
}

func TestVerify_NoMatchingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"itemListElement": [
				{"result": {"name": "Completely Unrelated Corp"}, "resultScore": 10}
			]
		}`)
	}))
	defer srv.Close()

	client, err := New("test-key", WithKGBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	verification, err := client.Verify(context.Background(), "acmewidgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verification.Recognized {
		t.Error("expected entity to be unrecognized")
	}
}

func TestVerify_EmptyQuery(t *testing.T) {
	client, err := New("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.Verify(context.Background(), "  "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestAnalyzeSalience(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		if req.Document.Type != "PLAIN_TEXT" {
			t.Errorf("unexpected document type %q", req.Document.Type)
		}
		if len(req.Document.Content) > maxContentChars {
			t.Errorf("content not truncated, got %d chars", len(req.Document.Content))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"entities": [
				{"name": "coffee", "salience": 0.42},
				{"name": "espresso machines", "salience": 0.21},
				{"name": "grinders", "salience": 0.08}
			]
		}`)
	}))
	defer srv.Close()

	client, err := New("test-key", WithNLBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := strings.Repeat("Specialty coffee equipment and espresso machines for home baristas. ", 200)

	entities, err := client.AnalyzeSalience(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entities) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(entities))
	}
	if entities[0].Entity != "coffee" || entities[0].Weight != 0.42 {
		t.Errorf("unexpected top entity %+v", entities[0])
	}
	if entities[1].Weight < entities[2].Weight {
		t.Error("expected entities sorted by descending weight")
	}
}

func TestAnalyzeSalience_ThinContentSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for thin content")
	}))
	defer srv.Close()

	client, err := New("test-key", WithNLBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entities, err := client.AnalyzeSalience(context.Background(), "too short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entities != nil {
		t.Errorf("expected nil entities for thin content, got %v", entities)
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Widgets", "acmewidgets"},
		{"green-garden-tools", "greengardentools"},
		{"  Mixed Case-Name ", "mixedcasename"},
	}

	for _, tc := range cases {
		if got := normalizeToken(tc.in); got != tc.want {
			t.Errorf("normalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
