package http

import (
	"strings"

	"blog-api/pkg/validation"
	"blog-api/services/post/internal/entity"
)

type CreatePostRequest struct {
	Title     string  `json:"title" validate:"required,min=3" example:"my first post"`
	Body      string  `json:"body" validate:"required,min=3" example:"hello world"`
	Author    string  `json:"author" validate:"required,min=3" example:"alice"`
	ImagePath *string `json:"image_path,omitempty"`
}

// Normalize lowercases the text fields. Call it only after validation passed.
func (r *CreatePostRequest) Normalize() {
	r.Title = strings.ToLower(r.Title)
	r.Body = strings.ToLower(r.Body)
	r.Author = strings.ToLower(r.Author)
}

// UpdatePostRequest is a partial update: absent fields are left untouched.
type UpdatePostRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=3"`
	Body      *string `json:"body,omitempty" validate:"omitempty,min=3"`
	ImagePath *string `json:"image_path,omitempty"`
}

func (r *UpdatePostRequest) Normalize() {
	if r.Title != nil {
		title := strings.ToLower(*r.Title)
		r.Title = &title
	}
	if r.Body != nil {
		body := strings.ToLower(*r.Body)
		r.Body = &body
	}
}

func (r *UpdatePostRequest) ToEntity() entity.PostUpdate {
	return entity.PostUpdate{
		Title:     r.Title,
		Body:      r.Body,
		ImagePath: r.ImagePath,
	}
}

type ErrorResponse struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PostListResponse struct {
	TotalPostagens int64          `json:"totalPostagens"`
	TotalPaginas   int            `json:"totalPaginas"`
	PaginaAtual    int            `json:"paginaAtual"`
	ItemsPorPagina int            `json:"itemsPorPagina"`
	ProximaPagina  *string        `json:"proximaPagina"`
	Postagens      []*entity.Post `json:"postagens"`
}

type StatusPostsResponse struct {
	Posts []*entity.Post `json:"posts"`
	Count int            `json:"count"`
}

type UploadImageResponse struct {
	Message   string `json:"message"`
	ImagePath string `json:"image_path"`
}
