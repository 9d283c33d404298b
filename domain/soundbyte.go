package domain

const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// Comment lives inside its parent SoundByte document. Its id is unique
// within the post only; comments have no lifecycle outside the parent.
type Comment struct {
	ID        string `bson:"id" json:"id"`
	Author    string `bson:"author" json:"author"`
	Body      string `bson:"body" json:"body"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
	UpdatedAt int64  `bson:"updated_at" json:"updated_at"`
}

// SoundByte is a feed post. When linked to a track it carries a denormalized
// snapshot of the track's display fields so the feed renders without a
// second lookup; the snapshot is replaced wholesale on every re-link.
type SoundByte struct {
	ID     string `bson:"id"`
	Author string `bson:"author"`

	Caption    string   `bson:"caption"`
	Tags       []string `bson:"tags,omitempty"`
	Visibility string   `bson:"visibility"`

	// Track link + denormalized snapshot, all empty for unlinked posts.
	TrackID      string `bson:"track_id,omitempty"`
	Title        string `bson:"title,omitempty"`
	Artist       string `bson:"artist,omitempty"`
	Genre        string `bson:"genre,omitempty"`
	CoverArtURL  string `bson:"cover_art_url,omitempty"`
	SoundClipURL string `bson:"sound_clip_url,omitempty"`

	// User-supplied link or direct audio, independent of the track link.
	SourceURL string `bson:"source_url,omitempty"`
	AudioURL  string `bson:"audio_url,omitempty"`

	LikesCount    int       `bson:"likes_count"`
	CommentsCount int       `bson:"comments_count"`
	Comments      []Comment `bson:"comments"`

	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
}

// CommentByID returns the embedded comment with the given id, or nil.
func (s *SoundByte) CommentByID(id string) *Comment {
	for i := range s.Comments {
		if s.Comments[i].ID == id {
			return &s.Comments[i]
		}
	}
	return nil
}
