package handlers

import (
	"net/http/httptest"
	"testing"
)

func TestPageParamsDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/videos", nil)
	offset, limit, err := pageParams(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset != 0 || limit != defaultLimit {
		t.Fatalf("expected defaults, got offset=%d limit=%d", offset, limit)
	}
}

func TestPageParamsComputesOffset(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/videos?page=3&limit=20", nil)
	offset, limit, err := pageParams(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset != 40 || limit != 20 {
		t.Fatalf("expected offset=40 limit=20, got offset=%d limit=%d", offset, limit)
	}
}

func TestPageParamsRejectsNonPositiveValues(t *testing.T) {
	for _, target := range []string{
		"/api/v1/videos?page=0",
		"/api/v1/videos?page=-2",
		"/api/v1/videos?limit=0",
		"/api/v1/videos?limit=-1",
		"/api/v1/videos?page=1.5",
		"/api/v1/videos?limit=ten",
	} {
		req := httptest.NewRequest("GET", target, nil)
		if _, _, err := pageParams(req); err == nil {
			t.Fatalf("%s: expected error", target)
		}
	}
}

func TestPageParamsCapsLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/videos?limit=10000", nil)
	_, limit, err := pageParams(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != maxLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxLimit, limit)
	}
}

func TestPageParamsCapsPageSoOffsetStaysInRange(t *testing.T) {
	for _, target := range []string{
		"/api/v1/videos?page=92233720368547758&limit=100",
		"/api/v1/videos?page=9223372036854775807",
	} {
		req := httptest.NewRequest("GET", target, nil)
		offset, limit, err := pageParams(req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", target, err)
		}
		if offset != (maxPage-1)*limit {
			t.Fatalf("%s: expected offset capped at %d, got %d", target, (maxPage-1)*limit, offset)
		}
		if offset < 0 {
			t.Fatalf("%s: offset must never be negative, got %d", target, offset)
		}
	}
}
