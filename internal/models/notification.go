package models

import "time"

// Notification types.
const (
	NotificationLike     = "like"
	NotificationComment  = "comment"
	NotificationFollow   = "follow"
	NotificationSystem   = "system"
	NotificationFeatured = "featured"
	NotificationBookmark = "bookmark"
)

// Notification is a single entry in a user's notification feed.
// Feeds are stored newest-first.
type Notification struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	ProjectID    string    `json:"projectId,omitempty"`
	ProjectTitle string    `json:"projectTitle,omitempty"`
	ProjectImage string    `json:"projectImage,omitempty"`
	AuthorID     string    `json:"authorId,omitempty"`
	AuthorName   string    `json:"authorName,omitempty"`
	AuthorAvatar string    `json:"authorAvatar,omitempty"`
	Time         time.Time `json:"time"`
	IsRead       bool      `json:"isRead"`
}
