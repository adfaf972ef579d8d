package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/anvarov/qmshub/internal/app/system/paging"
)

func TestParse_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/documents", nil)
	p := paging.Parse(r)

	if p.Skip != 0 {
		t.Errorf("Skip: got %d, want 0", p.Skip)
	}
	if p.Limit != paging.DefaultLimit {
		t.Errorf("Limit: got %d, want %d", p.Limit, paging.DefaultLimit)
	}
}

func TestParse_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/documents?skip=20&limit=50", nil)
	p := paging.Parse(r)

	if p.Skip != 20 {
		t.Errorf("Skip: got %d, want 20", p.Skip)
	}
	if p.Limit != 50 {
		t.Errorf("Limit: got %d, want 50", p.Limit)
	}
}

func TestClamp_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		skip      int
		limit     int
		wantSkip  int64
		wantLimit int64
	}{
		{"negative skip", -5, 10, 0, 10},
		{"zero limit", 0, 0, 0, paging.DefaultLimit},
		{"negative limit", 0, -1, 0, paging.DefaultLimit},
		{"over max limit", 0, 500, 0, paging.MaxLimit},
		{"at max limit", 0, paging.MaxLimit, 0, paging.MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paging.Clamp(tt.skip, tt.limit)
			if p.Skip != tt.wantSkip {
				t.Errorf("Skip: got %d, want %d", p.Skip, tt.wantSkip)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit: got %d, want %d", p.Limit, tt.wantLimit)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/documents?skip=abc&limit=xyz", nil)
	p := paging.Parse(r)

	if p.Skip != 0 {
		t.Errorf("Skip: got %d, want 0", p.Skip)
	}
	if p.Limit != paging.DefaultLimit {
		t.Errorf("Limit: got %d, want %d", p.Limit, paging.DefaultLimit)
	}
}
