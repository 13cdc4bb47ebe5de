package models

import (
	"strings"
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SocialLinks holds a user's optional social profile URLs.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Behance   string `json:"behance,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

// User represents a registered account on the platform.
//
// PasswordHash is part of the stored record (users are persisted as JSON
// blobs in the key-value store), so it carries a JSON tag instead of "-".
// It must be stripped before a user leaves the service layer.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	PasswordHash string       `json:"passwordHash,omitempty"`
	Faculty      string       `json:"faculty"`
	Role         string       `json:"role"`
	Blocked      bool         `json:"blocked,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	BirthDate    string       `json:"birthDate,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Avatar       string       `json:"avatar,omitempty"`
	Occupation   string       `json:"occupation,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
	Website      string       `json:"website,omitempty"`
	SocialLinks  *SocialLinks `json:"socialLinks,omitempty"`
}

// DisplayName is the public name embedded into author snapshots.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Sanitized returns a copy of the user safe to send to clients.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
