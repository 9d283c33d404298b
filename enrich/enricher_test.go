package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEnrichParsesSearchResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("term"); got != "Daft Punk One More Time" {
			t.Errorf("term = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resultCount": 1,
			"results": [{
				"artworkUrl100": "https://cdn/cover.jpg",
				"previewUrl": "https://cdn/preview.m4a",
				"primaryGenreName": "Electronic"
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	meta, err := c.Enrich(context.Background(), "Daft Punk", "One More Time")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.CoverArtURL != "https://cdn/cover.jpg" {
		t.Fatalf("cover = %q", meta.CoverArtURL)
	}
	if meta.SoundClipURL != "https://cdn/preview.m4a" {
		t.Fatalf("clip = %q", meta.SoundClipURL)
	}
	if meta.Genre != "Electronic" {
		t.Fatalf("genre = %q", meta.Genre)
	}
}

func TestEnrichNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultCount": 0, "results": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	meta, err := c.Enrich(context.Background(), "Nobody", "Nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.CoverArtURL != "" || meta.SoundClipURL != "" || meta.Genre != "" {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
}

func TestEnrichNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Enrich(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
