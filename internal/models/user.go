package models

import "time"

// User is the identity row the core references. Accounts are created by the
// identity collaborator; the core only edits the profile fields.
type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Bio      string `gorm:"size:500" json:"bio"`
	Website  string `gorm:"size:200" json:"website"`
	Location string `gorm:"size:100" json:"location"`
	// DarkMode is a private preference, only shown to the user themself.
	DarkMode  bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest edits the caller's own profile. Nil fields are kept.
type UpdateProfileRequest struct {
	Bio      *string `json:"bio"`
	Website  *string `json:"website"`
	Location *string `json:"location"`
	DarkMode *bool   `json:"dark_mode"`
}

// Profile is the read model served for a user page.
type Profile struct {
	User           User  `json:"user"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	PostsCount     int64 `json:"posts_count"`
	IsFollowing    bool  `json:"is_following"`
	// DarkMode is set only when the viewer is the profile's owner.
	DarkMode *bool `json:"dark_mode,omitempty"`
}
