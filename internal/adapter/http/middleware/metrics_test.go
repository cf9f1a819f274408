package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/transactions/", "/api/v1/transactions/"},
		{"/api/v1/transactions/01J7QRZX4M", "/api/v1/transactions/:id"},
		{"/api/v1/transactions/01J7QRZX4M/extra", "/api/v1/transactions/:id/extra"},
		{"/api/v1/rates/", "/api/v1/rates/"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
