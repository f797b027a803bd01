package models

import "time"

// Session carries the identity of the user a request acts for.
type Session struct {
	Token     string    `json:"token"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"created_at"`
}
