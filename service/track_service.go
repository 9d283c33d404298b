package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/enrich"
	"github.com/soundbyteapp/soundbyte-service/logger"
	"github.com/soundbyteapp/soundbyte-service/repository"
	"github.com/soundbyteapp/soundbyte-service/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

// TrackService is the single source of truth for canonical tracks. All track
// references across posts and jukeboxes resolve through it.
type TrackService interface {
	// FindOrCreate resolves raw attributes to the canonical track for
	// their derived key, creating it on first reference. An existing
	// track is returned unchanged; newly supplied attributes are never
	// merged into it.
	FindOrCreate(ctx context.Context, attrs *dto.TrackAttrs) (*domain.Track, error)
	GetByID(ctx context.Context, id string) (*domain.Track, error)
	// Resolve dispatches on the dual ref-or-attrs input: a non-empty id
	// must exist, otherwise attrs go through FindOrCreate.
	Resolve(ctx context.Context, trackID string, attrs *dto.TrackAttrs) (*domain.Track, error)
}

type trackService struct {
	repo          repository.TrackRepository
	enricher      enrich.Enricher
	enrichTimeout time.Duration
}

// NewTrackService builds the registry. A nil enricher disables enrichment
// entirely; the capability is held here rather than read from the
// environment so tests can force it on or off.
func NewTrackService(repo repository.TrackRepository, enricher enrich.Enricher, enrichTimeout time.Duration) TrackService {
	if enrichTimeout <= 0 {
		enrichTimeout = 3 * time.Second
	}
	return &trackService{
		repo:          repo,
		enricher:      enricher,
		enrichTimeout: enrichTimeout,
	}
}

func (s *trackService) FindOrCreate(ctx context.Context, attrs *dto.TrackAttrs) (*domain.Track, error) {
	if err := validateTrackAttrs(attrs); err != nil {
		return nil, err
	}

	key := domain.TrackKey(attrs.Artist, attrs.Title, attrs.SoundClipURL)

	track, err := s.repo.FindByKey(ctx, key)
	if err == nil {
		return track, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	track = &domain.Track{
		ID:           uuid.New().String(),
		Key:          key,
		Title:        attrs.Title,
		Artist:       attrs.Artist,
		Genre:        attrs.Genre,
		CoverArtURL:  attrs.CoverArtURL,
		SoundClipURL: attrs.SoundClipURL,
		SourceURL:    attrs.SourceURL,
		CreatedAt:    time.Now().Unix(),
	}

	// Caller fields win over enrichment, enrichment over empty. The key
	// is already fixed from the caller's attributes, so enrichment can
	// never move a track to a different identity.
	if s.enricher != nil && (attrs.CoverArtURL == "" || attrs.SoundClipURL == "") {
		s.applyEnrichment(ctx, track)
	}

	if err := s.repo.Create(ctx, track); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// A concurrent request created the same key between our
			// lookup and insert; theirs is the canonical record.
			logger.Info(logger.EventTrackCreateRace, "Track created concurrently, using existing record", logger.Fields(
				"key", key,
			))
			return s.repo.FindByKey(ctx, key)
		}
		return nil, err
	}

	logger.Info(logger.EventTrackCreated, "Canonical track created", logger.Fields(
		"track_id", track.ID,
		"artist", track.Artist,
		"title", track.Title,
	))
	return track, nil
}

func (s *trackService) applyEnrichment(ctx context.Context, track *domain.Track) {
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	meta, err := s.enricher.Enrich(ctx, track.Artist, track.Title)
	if err != nil {
		logger.Warn(logger.EventEnrichmentFailure, "Track enrichment failed, continuing without metadata", logger.Fields(
			"artist", track.Artist,
			"title", track.Title,
			"error", err.Error(),
		))
		return
	}

	if track.CoverArtURL == "" {
		track.CoverArtURL = meta.CoverArtURL
	}
	if track.SoundClipURL == "" {
		track.SoundClipURL = meta.SoundClipURL
	}
	if track.Genre == "" {
		track.Genre = meta.Genre
	}
}

func (s *trackService) GetByID(ctx context.Context, id string) (*domain.Track, error) {
	track, err := s.repo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("track: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return track, nil
}

func (s *trackService) Resolve(ctx context.Context, trackID string, attrs *dto.TrackAttrs) (*domain.Track, error) {
	if trackID != "" {
		return s.GetByID(ctx, trackID)
	}
	if attrs != nil {
		return s.FindOrCreate(ctx, attrs)
	}
	return nil, fmt.Errorf("track_id or track attributes required: %w", domain.ErrValidation)
}

func validateTrackAttrs(attrs *dto.TrackAttrs) error {
	if attrs == nil || attrs.Title == "" || attrs.Artist == "" {
		return fmt.Errorf("title and artist are required: %w", domain.ErrValidation)
	}
	for field, value := range map[string]string{
		"coverArtUrl":  attrs.CoverArtURL,
		"soundClipUrl": attrs.SoundClipURL,
		"sourceUrl":    attrs.SourceURL,
	} {
		if err := utils.ValidateURL(field, value); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
		}
	}
	return nil
}
