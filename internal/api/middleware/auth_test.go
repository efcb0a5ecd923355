// internal/api/middleware/auth_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func authServe(configured, provided string) *httptest.ResponseRecorder {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := APIKeyAuth(configured)(handler)

	req := httptest.NewRequest("GET", "/api/health", nil)
	if provided != "" {
		req.Header.Set("X-API-Key", provided)
	}
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	if w := authServe("secret-key", "secret-key"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	w := authServe("secret-key", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if resp.Error.Code != "CONFIG_MISSING" {
		t.Errorf("expected CONFIG_MISSING, got %s", resp.Error.Code)
	}
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	w := authServe("secret-key", "wrong-key")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if resp.Error.Code != "CONFIG_INVALID" {
		t.Errorf("expected CONFIG_INVALID, got %s", resp.Error.Code)
	}
}

func TestAPIKeyAuth_EmptyConfiguredKey(t *testing.T) {
	// Empty configured key disables auth entirely.
	if w := authServe("", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 when auth disabled, got %d", w.Code)
	}
}
