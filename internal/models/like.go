package models

import "time"

// PostLike - one row per (user, post)
type PostLike struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_post_like_pair" json:"user_id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_post_like_pair;index" json:"post_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike - one row per (user, comment)
type CommentLike struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_comment_like_pair" json:"user_id"`
	CommentID int       `gorm:"not null;uniqueIndex:idx_comment_like_pair;index" json:"comment_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Comment   Comment   `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists the tables in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Genre{},
		&Post{},
		&Comment{},
		&Follow{},
		&PostLike{},
		&CommentLike{},
	}
}
