package entity

import (
	"io"
	"time"
)

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	ImageKey  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) OwnerID() string { return p.AuthorID }

// Image is an uploaded file that already passed validation.
type Image struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Extension   string
}
