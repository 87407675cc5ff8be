package entity

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrEmptyUpdate   = errors.New("no fields to update")
	ErrInvalidStatus = errors.New("invalid post status")
)

type PostStatus string

const (
	StatusPending   PostStatus = "pending"
	StatusCompleted PostStatus = "completed"
)

func (s PostStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the other status.
func (s PostStatus) Toggled() PostStatus {
	if s == StatusPending {
		return StatusCompleted
	}
	return StatusPending
}

func ParsePostStatus(s string) (PostStatus, error) {
	status := PostStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Author    string     `json:"author"`
	ImagePath *string    `json:"image_path"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PostUpdate carries the fields of a partial update. Nil fields are left untouched.
type PostUpdate struct {
	Title     *string
	Body      *string
	ImagePath *string
}

func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Body == nil && u.ImagePath == nil
}

// PostPage is one window of the paginated listing.
type PostPage struct {
	Posts      []*Post
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func NewPostPage(posts []*Post, total int64, page, limit int) *PostPage {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	if posts == nil {
		posts = []*Post{}
	}
	return &PostPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
