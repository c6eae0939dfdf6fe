package models

import "time"

// Follow model
type Follow struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	FollowerID  int       `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID int       `gorm:"not null;uniqueIndex:idx_follow_pair;index;check:prevent_self_follow,follower_id <> following_id" json:"following_id"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
