package service

import (
	"context"
	"errors"
	"testing"

	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/dto"
)

func TestRegisterNormalizesIdentity(t *testing.T) {
	svc := NewUserService(newMockUserRepo())

	user, err := svc.Register(context.Background(), &dto.SignUpRequest{
		Username: "  Alice.W ",
		Email:    " Alice@Example.COM ",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice.w" {
		t.Fatalf("username = %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email = %q", user.Email)
	}
	if user.Password == "hunter22" {
		t.Fatal("password stored unhashed")
	}
}

func TestRegisterRejectsBadUsername(t *testing.T) {
	svc := NewUserService(newMockUserRepo())

	for _, username := range []string{"ab", "has space", "way-too!strange"} {
		_, err := svc.Register(context.Background(), &dto.SignUpRequest{
			Username: username,
			Email:    "a@b.com",
			Password: "pw",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("username %q: expected validation error, got %v", username, err)
		}
	}
}

func TestRegisterDuplicateUsernameConflict(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	if _, err := svc.Register(context.Background(), &dto.SignUpRequest{
		Username: "alice", Email: "a@b.com", Password: "pw",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), &dto.SignUpRequest{
		Username: "ALICE", Email: "other@b.com", Password: "pw",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	_, err = svc.Register(context.Background(), &dto.SignUpRequest{
		Username: "bob", Email: "A@B.com", Password: "pw",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	registered, err := svc.Register(context.Background(), &dto.SignUpRequest{
		Username: "alice", Email: "a@b.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), "Alice", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != registered.ID {
		t.Fatalf("got user %s, want %s", got.ID, registered.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "alice", "wrongpw"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "secret123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestFollowAndUnfollow(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &domain.User{ID: "u1", Username: "alice"}
	repo.users["u2"] = &domain.User{ID: "u2", Username: "bob"}
	svc := NewUserService(repo)

	if err := svc.Follow(context.Background(), "u1", "u2"); err != nil {
		t.Fatalf("follow: %v", err)
	}
	// Re-follow is a set add, not a duplicate.
	if err := svc.Follow(context.Background(), "u1", "u2"); err != nil {
		t.Fatalf("re-follow: %v", err)
	}
	if got := repo.users["u1"].Following; len(got) != 1 || got[0] != "u2" {
		t.Fatalf("following = %v", got)
	}
	if got := repo.users["u2"].Followers; len(got) != 1 || got[0] != "u1" {
		t.Fatalf("followers = %v", got)
	}

	if err := svc.Unfollow(context.Background(), "u1", "u2"); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if got := repo.users["u1"].Following; len(got) != 0 {
		t.Fatalf("following after unfollow = %v", got)
	}

	if err := svc.Follow(context.Background(), "u1", "u1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error on self-follow, got %v", err)
	}
	if err := svc.Follow(context.Background(), "u1", "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPublicProfileHidesCredentials(t *testing.T) {
	repo := newMockUserRepo()
	repo.users["u1"] = &domain.User{
		ID:        "u1",
		Username:  "alice",
		Password:  "hashed",
		Followers: []string{"u2", "u3"},
		Following: []string{"u2"},
	}
	svc := NewUserService(repo)

	profile, err := svc.PublicProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.DisplayName != "alice" {
		t.Fatalf("display name should fall back to username, got %q", profile.DisplayName)
	}
	if profile.FollowersCount != 2 || profile.FollowingCount != 1 {
		t.Fatalf("counts = %d/%d", profile.FollowersCount, profile.FollowingCount)
	}
}
