package dto

// TrackAttrs is the raw track input accepted wherever a track reference is
// allowed. Title and artist are mandatory; the rest are optional hints.
type TrackAttrs struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Genre        string `json:"genre,omitempty"`
	CoverArtURL  string `json:"coverArtUrl,omitempty"`
	SoundClipURL string `json:"soundClipUrl,omitempty"`
	SourceURL    string `json:"sourceUrl,omitempty"`
}
