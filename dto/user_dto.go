package dto

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type UserResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Followers   []string `json:"followers"`
	Following   []string `json:"following"`
	Jukebox     []string `json:"jukebox"`
	CreatedAt   int64    `json:"created_at"`
}

// PublicProfileResponse never carries credential material or raw social
// graph membership, only the counts.
type PublicProfileResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
	Bio            string `json:"bio,omitempty"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
}

// JukeboxAddRequest accepts an existing track reference or raw attributes,
// the same dual input the post endpoints take.
type JukeboxAddRequest struct {
	TrackID string      `json:"trackId,omitempty"`
	Track   *TrackAttrs `json:"track,omitempty"`
}
