package hostaway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/domain"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_ListReviews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reviews/hostaway" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": []map[string]any{
				{"id": 1, "guestName": "Ann", "rating": 5, "channel": "hostaway", "propertyId": 7},
				{"id": 2, "guestName": "Cy", "rating": nil, "channel": "manual", "propertyId": 7},
			},
		})
	}))
	defer ts.Close()

	cl := hostaway.New(ts.URL, "test-key", 100)
	got, err := cl.ListReviews(testCtx(t))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].GuestName != "Ann" || got[0].Rating == nil || *got[0].Rating != 5 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got[1].Rating != nil {
		t.Fatalf("absent rating must decode to nil, got %v", *got[1].Rating)
	}
}

func TestClient_SetReviewVisibility(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/reviews/42/display" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var in map[string]bool
		_ = json.Unmarshal(body, &in)
		if !in["isDisplayedPublicly"] {
			t.Errorf("expected isDisplayedPublicly=true in body, got %s", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]any{"id": 42, "propertyId": 7, "isDisplayedPublicly": true},
		})
	}))
	defer ts.Close()

	cl := hostaway.New(ts.URL, "", 100)
	got, err := cl.SetReviewVisibility(testCtx(t), 42, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != 42 || !got.DisplayedPublicly {
		t.Fatalf("unexpected review: %+v", got)
	}
}

func TestClient_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl := hostaway.New(ts.URL, "", 100)
	_, err := cl.GetProperty(testCtx(t), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "error": "review is archived"})
	}))
	defer ts.Close()

	cl := hostaway.New(ts.URL, "", 100)
	_, err := cl.SetReviewVisibility(testCtx(t), 1, false)
	if err == nil {
		t.Fatalf("expected error for error envelope")
	}
}

func TestClient_NoRetryOnServerError(t *testing.T) {
	var hits int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cl := hostaway.New(ts.URL, "", 100)
	if _, err := cl.ListProperties(testCtx(t)); err == nil {
		t.Fatalf("expected error for 500")
	}
	if hits != 1 {
		t.Fatalf("expected a single attempt, got %d", hits)
	}
}

func TestClient_StatsPathSelection(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": []any{}})
	}))
	defer ts.Close()

	cl := hostaway.New(ts.URL, "", 100)
	ctx := testCtx(t)
	if _, err := cl.ListPropertyStats(ctx, nil); err != nil {
		t.Fatalf("portfolio stats: %v", err)
	}
	id := int64(7)
	if _, err := cl.ListPropertyStats(ctx, &id); err != nil {
		t.Fatalf("property stats: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/properties/stats" || paths[1] != "/properties/7/stats" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}
