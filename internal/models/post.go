package models

import "time"

type Post struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Excerpt     string    `gorm:"type:text" json:"excerpt"`
	AuthorID    int       `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	GenreID     int       `gorm:"not null;index" json:"genre_id"`
	Genre       Genre     `gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE" json:"-"`
	IsPublished bool      `gorm:"not null;index" json:"is_published"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Content     string `json:"content" binding:"required"`
	Excerpt     string `json:"excerpt"`
	GenreSlug   string `json:"genre" binding:"required"`
	IsPublished *bool  `json:"is_published"`
}

// UpdatePostRequest carries a partial edit; nil fields are left untouched.
type UpdatePostRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Excerpt     *string `json:"excerpt"`
	GenreSlug   *string `json:"genre"`
	IsPublished *bool   `json:"is_published"`
}
