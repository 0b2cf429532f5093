package models

import "time"

// User is the stored account record. PasswordHash never crosses the service
// boundary; Profile below is the outward projection.
type User struct {
	ID           string
	Username     string
	Email        string
	GitID        string
	PasswordHash string
	Avatar       string
	Twitter      string
	Wallet       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of an account: only allow-listed fields, plus
// an optional session token. There is deliberately no password field here.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	GitID    string `json:"git_id,omitempty"`
	Email    string `json:"email"`
	Twitter  string `json:"twitter,omitempty"`
	Avatar   string `json:"avatar"`
	Token    string `json:"token,omitempty"`
}
