package service

import (
	"context"
	"errors"
	"sync"

	"github.com/soundbyteapp/soundbyte-service/domain"
	"github.com/soundbyteapp/soundbyte-service/enrich"
	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateKeyErr mimics the server-side unique index rejection so
// mongo.IsDuplicateKeyError recognizes it.
func duplicateKeyErr() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

// mockTrackRepo stores tracks in memory and enforces key uniqueness the way
// the real collection's unique index does. beforeCreate, when set, runs just
// before an insert so tests can interleave a competing create.
type mockTrackRepo struct {
	mu           sync.Mutex
	byKey        map[string]*domain.Track
	byID         map[string]*domain.Track
	beforeCreate func()
	createCalls  int
}

func newMockTrackRepo() *mockTrackRepo {
	return &mockTrackRepo{
		byKey: make(map[string]*domain.Track),
		byID:  make(map[string]*domain.Track),
	}
}

func (m *mockTrackRepo) Create(ctx context.Context, t *domain.Track) error {
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if _, exists := m.byKey[t.Key]; exists {
		return duplicateKeyErr()
	}
	cp := *t
	m.byKey[t.Key] = &cp
	m.byID[t.ID] = &cp
	return nil
}

func (m *mockTrackRepo) FindByKey(ctx context.Context, key string) (*domain.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.byKey[key]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTrackRepo) FindByID(ctx context.Context, id string) (*domain.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTrackRepo) FindByIDs(ctx context.Context, ids []string) ([]*domain.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Track
	for _, id := range ids {
		if t, ok := m.byID[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// insert seeds a track directly, bypassing Create bookkeeping.
func (m *mockTrackRepo) insert(t *domain.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.byKey[t.Key] = &cp
	m.byID[t.ID] = &cp
}

// mockUserRepo keeps users in memory with the same set semantics the real
// repository gets from $addToSet / $pull.
type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return duplicateKeyErr()
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) ListUsernames(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func addToSet(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

func pull(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func (m *mockUserRepo) withUser(id string, fn func(*domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	fn(u)
	return nil
}

func (m *mockUserRepo) AddToJukebox(ctx context.Context, userID, trackID string) error {
	return m.withUser(userID, func(u *domain.User) { u.Jukebox = addToSet(u.Jukebox, trackID) })
}

func (m *mockUserRepo) RemoveFromJukebox(ctx context.Context, userID, trackID string) error {
	return m.withUser(userID, func(u *domain.User) { u.Jukebox = pull(u.Jukebox, trackID) })
}

func (m *mockUserRepo) AddLiked(ctx context.Context, userID, id string) error {
	return m.withUser(userID, func(u *domain.User) { u.LikedSoundBytes = addToSet(u.LikedSoundBytes, id) })
}

func (m *mockUserRepo) RemoveLiked(ctx context.Context, userID, id string) error {
	return m.withUser(userID, func(u *domain.User) { u.LikedSoundBytes = pull(u.LikedSoundBytes, id) })
}

func (m *mockUserRepo) Follow(ctx context.Context, followerID, followeeID string) error {
	if err := m.withUser(followerID, func(u *domain.User) { u.Following = addToSet(u.Following, followeeID) }); err != nil {
		return err
	}
	return m.withUser(followeeID, func(u *domain.User) { u.Followers = addToSet(u.Followers, followerID) })
}

func (m *mockUserRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := m.withUser(followerID, func(u *domain.User) { u.Following = pull(u.Following, followeeID) }); err != nil {
		return err
	}
	return m.withUser(followeeID, func(u *domain.User) { u.Followers = pull(u.Followers, followerID) })
}

// mockSoundByteRepo mirrors the atomic document updates of the real
// repository, including the floor guard on counter decrements and the
// field-targeted post update that leaves engagement state alone. The
// before* hooks, when set, run just before the corresponding write so
// tests can interleave competing mutations.
type mockSoundByteRepo struct {
	mu           sync.Mutex
	posts        map[string]*domain.SoundByte
	beforeUpdate func()
	beforeWrite  func()
}

func newMockSoundByteRepo() *mockSoundByteRepo {
	return &mockSoundByteRepo{posts: make(map[string]*domain.SoundByte)}
}

func (m *mockSoundByteRepo) Create(ctx context.Context, s *domain.SoundByte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.posts[s.ID] = &cp
	return nil
}

func (m *mockSoundByteRepo) FindByID(ctx context.Context, id string) (*domain.SoundByte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		cp := *p
		cp.Comments = append([]domain.Comment(nil), p.Comments...)
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockSoundByteRepo) List(ctx context.Context, limit, skip int64) ([]*domain.SoundByte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SoundByte
	for _, p := range m.posts {
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(m.posts)), nil
}

func (m *mockSoundByteRepo) Update(ctx context.Context, s *domain.SoundByte) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[s.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	// Editable fields and the snapshot only; counters and comments stay.
	p.Caption = s.Caption
	p.Tags = s.Tags
	p.Visibility = s.Visibility
	p.SourceURL = s.SourceURL
	p.AudioURL = s.AudioURL
	p.TrackID = s.TrackID
	p.Title = s.Title
	p.Artist = s.Artist
	p.Genre = s.Genre
	p.CoverArtURL = s.CoverArtURL
	p.SoundClipURL = s.SoundClipURL
	p.UpdatedAt = s.UpdatedAt
	return nil
}

func (m *mockSoundByteRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.posts, id)
	return nil
}

func (m *mockSoundByteRepo) IncrementLikes(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.LikesCount++
	return nil
}

func (m *mockSoundByteRepo) DecrementLikes(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok && p.LikesCount > 0 {
		p.LikesCount--
	}
	return nil
}

func (m *mockSoundByteRepo) AppendComment(ctx context.Context, postID string, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Comments = append(p.Comments, *c)
	p.CommentsCount++
	return nil
}

func (m *mockSoundByteRepo) UpdateCommentBody(ctx context.Context, postID, commentID, body string, updatedAt int64) error {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments[i].Body = body
			p.Comments[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *mockSoundByteRepo) RemoveComment(ctx context.Context, postID, commentID string) error {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			if p.CommentsCount > 0 {
				p.CommentsCount--
			}
			return nil
		}
	}
	return nil
}

// stubEnricher returns fixed metadata or a fixed error and records calls.
type stubEnricher struct {
	meta  *enrich.Metadata
	err   error
	calls int
}

func (s *stubEnricher) Enrich(ctx context.Context, artist, title string) (*enrich.Metadata, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.meta == nil {
		return &enrich.Metadata{}, nil
	}
	return s.meta, nil
}

var errEnrichDown = errors.New("catalog unavailable")
