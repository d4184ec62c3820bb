package models

import "time"

type Session struct {
	UserID    string    `json:"user_id"`
	Login     string    `json:"login"`
	ExpiresAt time.Time `json:"expires_at"`
}
