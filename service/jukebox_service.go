package service

import (
	"context"
	"fmt"

	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

// JukeboxService manages a user's playlist of canonical track references.
// Adds and removes are idempotent: re-adding a present track or removing an
// absent one succeeds without changing anything.
type JukeboxService interface {
	Add(ctx context.Context, callerID, userID string, req *dto.JukeboxAddRequest) ([]*domain.Track, error)
	Remove(ctx context.Context, callerID, userID, trackID string) ([]*domain.Track, error)
	// List is public; jukeboxes have no per-user read restriction.
	List(ctx context.Context, userID string) ([]*domain.Track, error)
}

type jukeboxService struct {
	userRepo  repository.UserRepository
	trackRepo repository.TrackRepository
	tracks    TrackService
}

func NewJukeboxService(userRepo repository.UserRepository, trackRepo repository.TrackRepository, tracks TrackService) JukeboxService {
	return &jukeboxService{
		userRepo:  userRepo,
		trackRepo: trackRepo,
		tracks:    tracks,
	}
}

func (s *jukeboxService) Add(ctx context.Context, callerID, userID string, req *dto.JukeboxAddRequest) ([]*domain.Track, error) {
	if callerID != userID {
		return nil, fmt.Errorf("not allowed to modify this jukebox: %w", domain.ErrForbidden)
	}

	track, err := s.tracks.Resolve(ctx, req.TrackID, req.Track)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.AddToJukebox(ctx, userID, track.ID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return s.List(ctx, userID)
}

func (s *jukeboxService) Remove(ctx context.Context, callerID, userID, trackID string) ([]*domain.Track, error) {
	if callerID != userID {
		return nil, fmt.Errorf("not allowed to modify this jukebox: %w", domain.ErrForbidden)
	}

	if err := s.userRepo.RemoveFromJukebox(ctx, userID, trackID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return s.List(ctx, userID)
}

func (s *jukeboxService) List(ctx context.Context, userID string) ([]*domain.Track, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	tracks, err := s.trackRepo.FindByIDs(ctx, user.Jukebox)
	if err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []*domain.Track{}
	}
	return tracks, nil
}
