package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedHosts(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		hosts      []string
		host       string
		wantStatus int
	}{
		{"no list allows all", nil, "anything.example", http.StatusOK},
		{"wildcard allows all", []string{"*"}, "anything.example", http.StatusOK},
		{"exact match with port", []string{"api.bodhini.org"}, "api.bodhini.org:8080", http.StatusOK},
		{"case insensitive", []string{"API.bodhini.org"}, "api.BODHINI.org", http.StatusOK},
		{"subdomain pattern", []string{".bodhini.org"}, "www.bodhini.org", http.StatusOK},
		{"subdomain pattern matches apex", []string{".bodhini.org"}, "bodhini.org", http.StatusOK},
		{"rejected", []string{"api.bodhini.org"}, "evil.example", http.StatusBadRequest},
		{"suffix trick rejected", []string{".bodhini.org"}, "evilbodhini.org", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://placeholder/api/events", nil)
			req.Host = tt.host
			rr := httptest.NewRecorder()
			AllowedHosts(tt.hosts, next).ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
