package models

import "time"

type File struct {
	ID       int64     `json:"id"`
	OwnerID  string    `json:"owner_id"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Content  []byte    `json:"-"`
	EditedAt time.Time `json:"edited_at"`
}

// FileInfo is the listing projection of a file: owner and content are never exposed.
type FileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
