package domain

import "strings"

// Track is the canonical, deduplicated record for one musical track.
// Tracks are shared by posts and jukeboxes and are never deleted.
type Track struct {
	ID           string `bson:"id" json:"id"`
	Key          string `bson:"key" json:"-"`
	Title        string `bson:"title" json:"title"`
	Artist       string `bson:"artist" json:"artist"`
	Genre        string `bson:"genre,omitempty" json:"genre,omitempty"`
	CoverArtURL  string `bson:"cover_art_url,omitempty" json:"coverArtUrl,omitempty"`
	SoundClipURL string `bson:"sound_clip_url,omitempty" json:"soundClipUrl,omitempty"`
	SourceURL    string `bson:"source_url,omitempty" json:"sourceUrl,omitempty"`
	CreatedAt    int64  `bson:"created_at" json:"created_at"`
}

// TrackKey derives the canonical identity key for a track. Identity is the
// (artist, title, soundClipUrl) tuple: two tracks with the same artist and
// title but different clip URLs get different keys. The format is a data
// compatibility contract and must not change:
//
//	normalize(artist) + "::" + normalize(title) + "::" + normalize(clip)
//
// where normalize lowercases, trims, and collapses whitespace runs to a
// single space. A missing clip URL normalizes to the empty string.
func TrackKey(artist, title, soundClipURL string) string {
	return normalizeKeyPart(artist) + "::" + normalizeKeyPart(title) + "::" + normalizeKeyPart(soundClipURL)
}

func normalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
