package dialer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sukanya1426/Voice-Agent/internal/config"
)

func testConfig(baseURL string) config.FonosterConfig {
	return config.FonosterConfig{
		AccessKeyID: "WO00000000000000",
		APIKey:      "key",
		APISecret:   "secret",
		AppRef:      "app-ref-1",
		BaseURL:     baseURL,
	}
}

func TestValidE164(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"+15551234567", true},
		{"+8801312190214", true},
		{"15551234567", false},
		{"+05551234567", false},
		{"+1555123456789012345", false},
		{"not a number", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidE164(tt.number); got != tt.want {
			t.Errorf("ValidE164(%q) = %v, want %v", tt.number, got, tt.want)
		}
	}
}

func TestCreateCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/calls" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Access-Key-Id") != "WO00000000000000" {
			t.Errorf("missing access key header")
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.AppRef != "app-ref-1" {
			t.Errorf("expected default app ref, got %q", req.AppRef)
		}
		json.NewEncoder(w).Encode(Call{CallID: "call-42", Status: "queued"})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL))
	call, err := client.CreateCall(context.Background(), Request{
		From: "+15551230001",
		To:   "+15551230002",
	})
	if err != nil {
		t.Fatalf("CreateCall failed: %v", err)
	}
	if call.CallID != "call-42" || call.Status != "queued" {
		t.Errorf("unexpected call %+v", call)
	}
}

func TestCreateCallValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.FonosterConfig
		req     Request
		wantErr error
	}{
		{
			"missing credentials",
			config.FonosterConfig{BaseURL: "http://unused"},
			Request{From: "+15551230001", To: "+15551230002"},
			ErrMissingCredentials,
		},
		{
			"missing app ref",
			config.FonosterConfig{AccessKeyID: "a", APIKey: "k", APISecret: "s", BaseURL: "http://unused"},
			Request{From: "+15551230001", To: "+15551230002"},
			ErrMissingApplication,
		},
		{
			"bad from number",
			testConfig("http://unused"),
			Request{From: "5551230001", To: "+15551230002"},
			ErrInvalidNumber,
		},
		{
			"bad to number",
			testConfig("http://unused"),
			Request{From: "+15551230001", To: "bogus"},
			ErrInvalidNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.cfg)
			_, err := client.CreateCall(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateCallErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuthentication},
		{"forbidden", http.StatusForbidden, ErrAuthentication},
		{"app not found", http.StatusNotFound, ErrApplicationNotFound},
		{"rejected number", http.StatusUnprocessableEntity, ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"error": tt.name})
			}))
			defer srv.Close()

			client := New(testConfig(srv.URL))
			_, err := client.CreateCall(context.Background(), Request{
				From: "+15551230001",
				To:   "+15551230002",
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calls/call-42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Call{CallID: "call-42", Status: "in-progress"})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL))
	call, err := client.GetCall(context.Background(), "call-42")
	if err != nil {
		t.Fatalf("GetCall failed: %v", err)
	}
	if call.Status != "in-progress" {
		t.Errorf("unexpected status %q", call.Status)
	}
}
