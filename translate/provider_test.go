package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBuildHTTPRequestOpenAIChat(t *testing.T) {
	prov := Provider{
		ID:      ProviderGroq,
		BaseURL: "https://api.example.com/v1",
		APIKey:  "sk-test",
		Model:   "test-model",
	}

	endpoint, headers, body, err := buildHTTPRequest(prov, "system", "user text", formatOpenAIChat)
	if err != nil {
		t.Fatalf("buildHTTPRequest: %v", err)
	}
	if endpoint != "https://api.example.com/v1/chat/completions" {
		t.Fatalf("endpoint = %q", endpoint)
	}
	if headers["Authorization"] != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", headers["Authorization"])
	}

	var req struct {
		Model       string `json:"model"`
		Temperature float64
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if req.Temperature != 0 {
		t.Fatalf("temperature = %v, want 0", req.Temperature)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "user text" {
		t.Fatalf("messages = %+v", req.Messages)
	}
}

func TestBuildHTTPRequestGemini(t *testing.T) {
	prov := Provider{
		ID:      ProviderGoogle,
		BaseURL: "https://generativelanguage.googleapis.com",
		APIKey:  "g-key",
		Model:   "gemini-test",
	}

	endpoint, headers, body, err := buildHTTPRequest(prov, "system", "user text", formatGeminiNative)
	if err != nil {
		t.Fatalf("buildHTTPRequest: %v", err)
	}
	if !strings.HasSuffix(endpoint, "/v1beta/models/gemini-test:generateContent") {
		t.Fatalf("endpoint = %q", endpoint)
	}
	if headers["x-goog-api-key"] != "g-key" {
		t.Fatalf("x-goog-api-key = %q", headers["x-goog-api-key"])
	}
	if !strings.Contains(string(body), `"systemInstruction"`) {
		t.Fatalf("body lacks system instruction: %s", body)
	}
}

func TestCallHTTPProviderOpenAI(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Bonjour {name}"}}]}`))
	}))
	defer srv.Close()

	prov := Provider{ID: ProviderCustomOpenAI, BaseURL: srv.URL, Model: "m", Timeout: 5 * time.Second}
	got, err := callHTTPProvider(context.Background(), prov, "sys", "Hello {name}", formatOpenAIChat, nil, 0, false)
	if err != nil {
		t.Fatalf("callHTTPProvider: %v", err)
	}
	if got != "Bonjour {name}" {
		t.Fatalf("response = %q", got)
	}
	if !strings.Contains(string(gotBody), "Hello {name}") {
		t.Fatalf("request body lacks user text: %s", gotBody)
	}
}

func TestCallHTTPProviderClientErrorNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	prov := Provider{ID: ProviderCustomOpenAI, BaseURL: srv.URL, Model: "m", Timeout: 5 * time.Second}
	_, err := callHTTPProvider(context.Background(), prov, "sys", "text", formatOpenAIChat, nil, 3, false)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if calls != 1 {
		t.Fatalf("server called %d times, want 1 (4xx is not retried)", calls)
	}
}

func TestExtractResponseText(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "openai chat",
			body: `{"choices":[{"message":{"content":"hi"}}]}`,
			want: "hi",
		},
		{
			name: "gemini",
			body: `{"candidates":[{"content":{"parts":[{"text":"hallo"}]}}]}`,
			want: "hallo",
		},
		{
			name:    "api error",
			body:    `{"error":{"message":"quota exceeded"}}`,
			wantErr: true,
		},
		{
			name:    "unknown shape",
			body:    `{"something":"else"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `<html>`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		got, err := extractResponseText([]byte(tc.body))
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%s: got %q, %v", tc.name, got, err)
		}
	}
}

func TestParseRetryDelay(t *testing.T) {
	body := `{"error":{"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"30s"}]}}`
	if got := parseRetryDelay([]byte(body)); got != 35*time.Second {
		t.Fatalf("parseRetryDelay = %v, want 35s", got)
	}
	if got := parseRetryDelay([]byte(`{}`)); got != 65*time.Second {
		t.Fatalf("default delay = %v, want 65s", got)
	}
}

func TestProviderRequiresAPIKey(t *testing.T) {
	for id, prov := range DefaultProviders() {
		want := id == ProviderGoogle || id == ProviderGroq
		if prov.RequiresAPIKey() != want {
			t.Fatalf("RequiresAPIKey(%s) = %v, want %v", id, prov.RequiresAPIKey(), want)
		}
	}
}
