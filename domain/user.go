package domain

type User struct {
	ID       string `bson:"id"`
	Username string `bson:"username"`
	Email    string `bson:"email"`
	Password string `bson:"password"`

	DisplayName string `bson:"display_name,omitempty"`
	AvatarURL   string `bson:"avatar_url,omitempty"`
	Bio         string `bson:"bio,omitempty"`

	Followers []string `bson:"followers"`
	Following []string `bson:"following"`

	// Jukebox holds track ids in insertion order with set semantics: the
	// same id never appears twice.
	Jukebox         []string `bson:"jukebox"`
	LikedSoundBytes []string `bson:"liked_soundbytes"`

	CreatedAt int64 `bson:"created_at"`
	UpdatedAt int64 `bson:"updated_at"`
}
