package models

import "time"

// Project categories form the fixed vocabulary used across the platform.
var Categories = []string{
	"painting",
	"photography",
	"sculpture",
	"design",
	"music",
	"literature",
	"video",
}

// ValidCategory reports whether c belongs to the category vocabulary.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// AuthorRef is a snapshot of a user's public identity, copied into projects
// and comments at creation time. It is intentionally not kept in sync with
// later profile edits (denormalized to avoid joins in the key-value store).
type AuthorRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Comment is a single comment on a project. Comments are append-only and
// keep insertion order.
type Comment struct {
	ID      string    `json:"id"`
	Author  AuthorRef `json:"author"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
	Likes   int       `json:"likes"`
	IsRead  bool      `json:"isRead"`
}

// Project represents a published portfolio work with its embedded comments.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Date        time.Time `json:"date"`
	Image       string    `json:"image"`
	Author      AuthorRef `json:"author"`
	Likes       int       `json:"likes"`
	Comments    []Comment `json:"comments"`
	Views       int       `json:"views"`
	Featured    bool      `json:"featured,omitempty"`
}
