package dto

import "github.com/soundbyteapp/soundbyte-service/domain"

// CreateSoundByteRequest accepts either an existing track reference
// (track_id) or raw attributes (track); supplying both prefers track_id.
type CreateSoundByteRequest struct {
	Caption    string      `json:"caption"`
	Tags       []string    `json:"tags,omitempty"`
	Visibility string      `json:"visibility,omitempty"`
	SourceURL  string      `json:"sourceUrl,omitempty"`
	AudioURL   string      `json:"audioUrl,omitempty"`
	TrackID    string      `json:"track_id,omitempty"`
	Track      *TrackAttrs `json:"track,omitempty"`
}

// UpdateSoundByteRequest carries only the fields to change; empty fields are
// left as they are. Re-linking via track_id or track replaces the whole
// denormalized snapshot.
type UpdateSoundByteRequest struct {
	Caption    string      `json:"caption,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Visibility string      `json:"visibility,omitempty"`
	SourceURL  string      `json:"sourceUrl,omitempty"`
	AudioURL   string      `json:"audioUrl,omitempty"`
	TrackID    string      `json:"track_id,omitempty"`
	Track      *TrackAttrs `json:"track,omitempty"`
}

type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type AuthorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type SoundByteResponse struct {
	ID         string          `json:"id"`
	Author     *AuthorResponse `json:"author"`
	Caption    string          `json:"caption"`
	Tags       []string        `json:"tags,omitempty"`
	Visibility string          `json:"visibility"`

	TrackID      string `json:"track_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Artist       string `json:"artist,omitempty"`
	Genre        string `json:"genre,omitempty"`
	CoverArtURL  string `json:"coverArtUrl,omitempty"`
	SoundClipURL string `json:"soundClipUrl,omitempty"`
	SourceURL    string `json:"sourceUrl,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`

	LikesCount    int              `json:"likes_count"`
	CommentsCount int              `json:"comments_count"`
	Comments      []domain.Comment `json:"comments"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

type FeedResponse struct {
	Total int64                `json:"total"`
	Limit int64                `json:"limit"`
	Skip  int64                `json:"skip"`
	Items []*SoundByteResponse `json:"items"`
}

type LikesResponse struct {
	ID         string `json:"id"`
	LikesCount int    `json:"likes_count"`
}
