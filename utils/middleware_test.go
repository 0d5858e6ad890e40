package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func protectedServer(t *testing.T, secret string) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	r.Use(AuthMiddleware(secret))
	r.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("claims missing from context behind the middleware")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.UserID))
	}).Methods("GET")
	return r
}

func TestAuthMiddlewareAllowsValidToken(t *testing.T) {
	token, err := NewAccessToken("test-secret", "edubridge", time.Hour, AccessClaims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedServer(t, "test-secret").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("body = %q, want the user id from the claims", rec.Body.String())
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	badToken, err := NewAccessToken("other-secret", "edubridge", time.Hour, AccessClaims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"wrong secret", "Bearer " + badToken},
		{"garbage token", "Bearer not-a-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protectedServer(t, "test-secret").ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
