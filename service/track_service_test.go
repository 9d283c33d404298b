package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/enrich"
)

func TestFindOrCreateReturnsExistingUnchanged(t *testing.T) {
	repo := newMockTrackRepo()
	existing := &domain.Track{
		ID:     "t1",
		Key:    domain.TrackKey("Artist", "Song", "https://x/1"),
		Title:  "Song",
		Artist: "Artist",
		Genre:  "house",
	}
	repo.insert(existing)

	svc := NewTrackService(repo, nil, time.Second)

	got, err := svc.FindOrCreate(context.Background(), &dto.TrackAttrs{
		Artist:       "ARTIST",
		Title:        " Song ",
		SoundClipURL: "https://x/1",
		Genre:        "techno", // must not be merged in
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing track %s, got %s", existing.ID, got.ID)
	}
	if got.Genre != "house" {
		t.Fatalf("existing track was mutated: genre = %q", got.Genre)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no create, got %d", repo.createCalls)
	}
}

func TestFindOrCreateCreatesOnMiss(t *testing.T) {
	repo := newMockTrackRepo()
	svc := NewTrackService(repo, nil, time.Second)

	got, err := svc.FindOrCreate(context.Background(), &dto.TrackAttrs{
		Artist: "Artist",
		Title:  "Song",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected generated track id")
	}
	if got.Key != "artist::song::" {
		t.Fatalf("key = %q", got.Key)
	}
}

func TestFindOrCreateRequiresTitleAndArtist(t *testing.T) {
	svc := NewTrackService(newMockTrackRepo(), nil, time.Second)

	_, err := svc.FindOrCreate(context.Background(), &dto.TrackAttrs{Artist: "Artist"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFindOrCreateResolvesCreateRace(t *testing.T) {
	repo := newMockTrackRepo()
	attrs := &dto.TrackAttrs{Artist: "Artist", Title: "Song", SoundClipURL: "https://x/1"}
	key := domain.TrackKey(attrs.Artist, attrs.Title, attrs.SoundClipURL)

	// A competing request inserts the same key between lookup and insert.
	winner := &domain.Track{ID: "winner", Key: key, Title: "Song", Artist: "Artist"}
	var once sync.Once
	repo.beforeCreate = func() {
		once.Do(func() { repo.insert(winner) })
	}

	svc := NewTrackService(repo, nil, time.Second)

	got, err := svc.FindOrCreate(context.Background(), attrs)
	if err != nil {
		t.Fatalf("race must be resolved silently, got error: %v", err)
	}
	if got.ID != "winner" {
		t.Fatalf("expected the concurrently created track, got %s", got.ID)
	}
}

func TestFindOrCreateConcurrentSingleCanonical(t *testing.T) {
	repo := newMockTrackRepo()
	svc := NewTrackService(repo, nil, time.Second)
	attrs := &dto.TrackAttrs{Artist: "Artist", Title: "Song", SoundClipURL: "https://x/1"}

	const n = 10
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			track, err := svc.FindOrCreate(context.Background(), attrs)
			if err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			ids[i] = track.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("call %d returned %s, call 0 returned %s", i, ids[i], ids[0])
		}
	}
	if len(repo.byKey) != 1 {
		t.Fatalf("expected exactly one persisted track, got %d", len(repo.byKey))
	}
}

func TestEnrichmentFillsMissingFieldsOnly(t *testing.T) {
	repo := newMockTrackRepo()
	enricher := &stubEnricher{meta: &enrich.Metadata{
		CoverArtURL:  "https://cdn/enriched-cover.jpg",
		SoundClipURL: "https://cdn/enriched-clip.mp3",
		Genre:        "electronic",
	}}
	svc := NewTrackService(repo, enricher, time.Second)

	got, err := svc.FindOrCreate(context.Background(), &dto.TrackAttrs{
		Artist:      "Artist",
		Title:       "Song",
		CoverArtURL: "https://me/cover.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enricher.calls != 1 {
		t.Fatalf("expected one enrichment call, got %d", enricher.calls)
	}
	if got.CoverArtURL != "https://me/cover.jpg" {
		t.Fatalf("caller cover art must win, got %q", got.CoverArtURL)
	}
	if got.SoundClipURL != "https://cdn/enriched-clip.mp3" {
		t.Fatalf("missing clip should be enriched, got %q", got.SoundClipURL)
	}
	if got.Genre != "electronic" {
		t.Fatalf("missing genre should be enriched, got %q", got.Genre)
	}
	// Enrichment happens after key derivation and never changes identity.
	if got.Key != "artist::song::" {
		t.Fatalf("key must reflect caller attrs only, got %q", got.Key)
	}
}

func TestEnrichmentSkippedWhenFieldsPresent(t *testing.T) {
	enricher := &stubEnricher{}
	svc := NewTrackService(newMockTrackRepo(), enricher, time.Second)

	_, err := svc.FindOrCreate(context.Background(), &dto.TrackAttrs{
		Artist:       "Artist",
		Title:        "Song",
		CoverArtURL:  "https://me/c.jpg",
		SoundClipURL: "https://me/s.mp3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enricher.calls != 0 {
		t.Fatalf("enricher must not be called, got %d calls", enricher.calls)
	}
}

func TestEnrichmentFailureIsSwallowed(t *testing.T) {
	enricher := &stubEnricher{err: errEnrichDown}
	svc := NewTrackService(newMockTrackRepo(), enricher, time.Second)

	got, err := svc.FindOrCreate(context.Background(), &dto.TrackAttrs{
		Artist: "Artist",
		Title:  "Song",
	})
	if err != nil {
		t.Fatalf("enrichment failure must not propagate, got %v", err)
	}
	if got.CoverArtURL != "" || got.Genre != "" {
		t.Fatal("failed enrichment must contribute nothing")
	}
}

func TestResolveUnknownTrackID(t *testing.T) {
	svc := NewTrackService(newMockTrackRepo(), nil, time.Second)

	_, err := svc.Resolve(context.Background(), "missing", nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolveRequiresRefOrAttrs(t *testing.T) {
	svc := NewTrackService(newMockTrackRepo(), nil, time.Second)

	_, err := svc.Resolve(context.Background(), "", nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
