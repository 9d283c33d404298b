package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
	"github.com/soundbyteapp/soundbyte-service/repository"
	"github.com/soundbyteapp/soundbyte-service/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *dto.SignUpRequest) (*domain.User, error)
	// Authenticate verifies credentials and returns the user; any failure
	// is reported as unauthorized without distinguishing the cause.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListUsernames(ctx context.Context) ([]*dto.UserSummary, error)
	PublicProfile(ctx context.Context, id string) (*dto.PublicProfileResponse, error)
	Follow(ctx context.Context, callerID, userID string) error
	Unfollow(ctx context.Context, callerID, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.SignUpRequest) (*domain.User, error) {
	username := utils.NormalizeIdentifier(req.Username)
	email := utils.NormalizeIdentifier(req.Email)

	if err := utils.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already taken: %w", domain.ErrConflict)
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", domain.ErrConflict)
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := &domain.User{
		ID:              uuid.New().String(),
		Username:        username,
		Email:           email,
		Password:        string(hashed),
		Followers:       []string{},
		Following:       []string{},
		Jukebox:         []string{},
		LikedSoundBytes: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique indexes backstop the pre-checks under concurrency.
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("username or email already taken: %w", domain.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, utils.NormalizeIdentifier(username))
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsernames(ctx context.Context) ([]*dto.UserSummary, error) {
	users, err := s.userRepo.ListUsernames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, &dto.UserSummary{ID: u.ID, Username: u.Username})
	}
	return out, nil
}

func (s *userService) PublicProfile(ctx context.Context, id string) (*dto.PublicProfileResponse, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}
	return &dto.PublicProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    displayName,
		AvatarURL:      user.AvatarURL,
		Bio:            user.Bio,
		FollowersCount: len(user.Followers),
		FollowingCount: len(user.Following),
	}, nil
}

func (s *userService) Follow(ctx context.Context, callerID, userID string) error {
	if callerID == userID {
		return fmt.Errorf("cannot follow yourself: %w", domain.ErrValidation)
	}
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Follow(ctx, callerID, userID)
}

func (s *userService) Unfollow(ctx context.Context, callerID, userID string) error {
	if callerID == userID {
		return fmt.Errorf("cannot unfollow yourself: %w", domain.ErrValidation)
	}
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Unfollow(ctx, callerID, userID)
}
