package entities

import "time"

type File struct {
	ID       int64     `db:"id"`
	OwnerID  string    `db:"owner_id"`
	Filename string    `db:"filename"`
	Size     int64     `db:"size"`
	Content  []byte    `db:"content"`
	EditedAt time.Time `db:"edited_at"`
}

type FileInfo struct {
	Filename string `db:"filename"`
	Size     int64  `db:"size"`
}
