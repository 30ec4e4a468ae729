package utils

import (
	"net/http/httptest"
	"testing"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/transactions/", 1, 20},
		{"explicit values", "/transactions/?page=3&limit=50", 3, 50},
		{"limit capped", "/transactions/?limit=500", 1, 100},
		{"negative page falls back", "/transactions/?page=-2", 1, 20},
		{"garbage ignored", "/transactions/?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, limit := GetPaginationParams(r)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestAddSorting(t *testing.T) {
	base := "SELECT id FROM transactions WHERE user_id = ?"

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"no params", "/transactions/", base},
		{"whitelisted column", "/transactions/?sortBy=amount", base + " ORDER BY amount ASC"},
		{"descending", "/transactions/?sortBy=created_at&sortOrder=desc", base + " ORDER BY created_at DESC"},
		{"unknown column ignored", "/transactions/?sortBy=password", base},
		{"injection attempt ignored", "/transactions/?sortBy=amount%3BDROP%20TABLE%20users", base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := AddSorting(r, base); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
