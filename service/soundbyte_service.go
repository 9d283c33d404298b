package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/logger"
	"github.com/soundbyteapp/soundbyte-service/repository"
	"github.com/soundbyteapp/soundbyte-service/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

type SoundByteService interface {
	Create(ctx context.Context, authorID string, req *dto.CreateSoundByteRequest) (*domain.SoundByte, error)
	Get(ctx context.Context, id string) (*domain.SoundByte, error)
	List(ctx context.Context, limit, skip int64) ([]*domain.SoundByte, int64, error)
	Update(ctx context.Context, callerID, id string, req *dto.UpdateSoundByteRequest) (*domain.SoundByte, error)
	Delete(ctx context.Context, callerID, id string) error

	Like(ctx context.Context, callerID, id string) (*domain.SoundByte, error)
	Unlike(ctx context.Context, callerID, id string) (*domain.SoundByte, error)

	AddComment(ctx context.Context, callerID, postID, body string) (*domain.SoundByte, error)
	EditComment(ctx context.Context, callerID, postID, commentID, body string) error
	DeleteComment(ctx context.Context, callerID, postID, commentID string) error
}

type soundByteService struct {
	repo     repository.SoundByteRepository
	tracks   TrackService
	userRepo repository.UserRepository
}

func NewSoundByteService(repo repository.SoundByteRepository, tracks TrackService, userRepo repository.UserRepository) SoundByteService {
	return &soundByteService{
		repo:     repo,
		tracks:   tracks,
		userRepo: userRepo,
	}
}

func (s *soundByteService) Create(ctx context.Context, authorID string, req *dto.CreateSoundByteRequest) (*domain.SoundByte, error) {
	if err := validatePostFields(req.Visibility, req.SourceURL, req.AudioURL); err != nil {
		return nil, err
	}
	if req.Caption == "" && req.SourceURL == "" && req.AudioURL == "" {
		return nil, fmt.Errorf("caption is required: %w", domain.ErrValidation)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}

	now := time.Now().Unix()
	post := &domain.SoundByte{
		ID:         uuid.New().String(),
		Author:     authorID,
		Caption:    req.Caption,
		Tags:       normalizeTags(req.Tags),
		Visibility: visibility,
		SourceURL:  req.SourceURL,
		AudioURL:   req.AudioURL,
		Comments:   []domain.Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if req.TrackID != "" || req.Track != nil {
		track, err := s.tracks.Resolve(ctx, req.TrackID, req.Track)
		if err != nil {
			return nil, err
		}
		applyTrackSnapshot(post, track)
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *soundByteService) Get(ctx context.Context, id string) (*domain.SoundByte, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("soundbyte: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *soundByteService) List(ctx context.Context, limit, skip int64) ([]*domain.SoundByte, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.List(ctx, limit, skip)
}

func (s *soundByteService) Update(ctx context.Context, callerID, id string, req *dto.UpdateSoundByteRequest) (*domain.SoundByte, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != callerID {
		return nil, fmt.Errorf("only the author may modify this soundbyte: %w", domain.ErrForbidden)
	}
	if err := validatePostFields(req.Visibility, req.SourceURL, req.AudioURL); err != nil {
		return nil, err
	}

	if req.Caption != "" {
		post.Caption = req.Caption
	}
	if req.Tags != nil {
		post.Tags = normalizeTags(req.Tags)
	}
	if req.Visibility != "" {
		post.Visibility = req.Visibility
	}
	if req.SourceURL != "" {
		post.SourceURL = req.SourceURL
	}
	if req.AudioURL != "" {
		post.AudioURL = req.AudioURL
	}

	if req.TrackID != "" || req.Track != nil {
		track, err := s.tracks.Resolve(ctx, req.TrackID, req.Track)
		if err != nil {
			return nil, err
		}
		applyTrackSnapshot(post, track)
	}

	post.UpdatedAt = time.Now().Unix()
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	// Re-read: likes and comments may have moved since the post was loaded.
	return s.Get(ctx, id)
}

func (s *soundByteService) Delete(ctx context.Context, callerID, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.Author != callerID {
		return fmt.Errorf("only the author may delete this soundbyte: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

func (s *soundByteService) Like(ctx context.Context, callerID, id string) (*domain.SoundByte, error) {
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("soundbyte: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if err := s.userRepo.AddLiked(ctx, callerID, id); err != nil {
		logger.Warn(logger.EventGeneral, "Failed to record liked soundbyte on user", logger.Fields(
			"user_id", callerID,
			"soundbyte_id", id,
			"error", err.Error(),
		))
	}
	return s.Get(ctx, id)
}

func (s *soundByteService) Unlike(ctx context.Context, callerID, id string) (*domain.SoundByte, error) {
	// Existence first: the floor-guarded decrement cannot tell a missing
	// post from a counter already at zero.
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.DecrementLikes(ctx, id); err != nil {
		return nil, err
	}
	if err := s.userRepo.RemoveLiked(ctx, callerID, id); err != nil {
		logger.Warn(logger.EventGeneral, "Failed to remove liked soundbyte from user", logger.Fields(
			"user_id", callerID,
			"soundbyte_id", id,
			"error", err.Error(),
		))
	}
	return s.Get(ctx, id)
}

func (s *soundByteService) AddComment(ctx context.Context, callerID, postID, body string) (*domain.SoundByte, error) {
	if body == "" {
		return nil, fmt.Errorf("comment body is required: %w", domain.ErrValidation)
	}

	now := time.Now().Unix()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		Author:    callerID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.AppendComment(ctx, postID, comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("soundbyte: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return s.Get(ctx, postID)
}

func (s *soundByteService) EditComment(ctx context.Context, callerID, postID, commentID, body string) error {
	if body == "" {
		return fmt.Errorf("comment body is required: %w", domain.ErrValidation)
	}
	if err := s.authorizeComment(ctx, callerID, postID, commentID); err != nil {
		return err
	}
	if err := s.repo.UpdateCommentBody(ctx, postID, commentID, body, time.Now().Unix()); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("comment: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *soundByteService) DeleteComment(ctx context.Context, callerID, postID, commentID string) error {
	if err := s.authorizeComment(ctx, callerID, postID, commentID); err != nil {
		return err
	}
	if err := s.repo.RemoveComment(ctx, postID, commentID); err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("comment: %w", domain.ErrNotFound)
		}
		return err
	}
	return nil
}

// authorizeComment resolves the post and the embedded comment, failing with
// not-found for either missing piece (a deleted comment id is gone, not
// "already deleted") and forbidden for a non-author caller.
func (s *soundByteService) authorizeComment(ctx context.Context, callerID, postID, commentID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	comment := post.CommentByID(commentID)
	if comment == nil {
		return fmt.Errorf("comment: %w", domain.ErrNotFound)
	}
	if comment.Author != callerID {
		logger.Security(logger.EventAccessDenied, "Comment mutation by non-author rejected", logger.Fields(
			"user_id", callerID,
			"soundbyte_id", postID,
			"comment_id", commentID,
		))
		return fmt.Errorf("only the comment author may modify it: %w", domain.ErrForbidden)
	}
	return nil
}

// applyTrackSnapshot replaces the post's denormalized track fields with the
// given track's, wholesale. Fields the new track lacks are cleared; nothing
// from a previous link survives.
func applyTrackSnapshot(post *domain.SoundByte, track *domain.Track) {
	post.TrackID = track.ID
	post.Title = track.Title
	post.Artist = track.Artist
	post.Genre = track.Genre
	post.CoverArtURL = track.CoverArtURL
	post.SoundClipURL = track.SoundClipURL
}

func validatePostFields(visibility, sourceURL, audioURL string) error {
	if err := utils.ValidateVisibility(visibility); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	if err := utils.ValidateURL("sourceUrl", sourceURL); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	if err := utils.ValidateURL("audioUrl", audioURL); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = utils.NormalizeIdentifier(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
