// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Display-date layouts used on rendered pages. Posts show a long form
// ("August 31, 2026"), comments a compact one ("31/Aug/2026"). Both are
// fixed at creation time and never recomputed.
const (
	PostDateLayout    = "January 2, 2006"
	CommentDateLayout = "02/Jan/2006"
)

// Post represents a published blog post.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"uniqueIndex;not null" json:"title"`
	Subtitle string `gorm:"not null" json:"subtitle"`
	Body     string `gorm:"type:text;not null" json:"body"`
	ImageURL string `gorm:"not null" json:"image_url"`
	// Date is the human-readable publication date shown on the site.
	// Immutable after creation, as is the author.
	Date      string    `gorm:"not null" json:"date"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name used by existing deployments of the site.
func (Post) TableName() string {
	return "blog_posts"
}
