package persistent

import (
	"blog-api/services/post/internal/entity"
	"blog-api/services/post/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		Author:    m.Author,
		ImagePath: m.ImagePath,
		Status:    entity.PostStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:        e.ID,
		Title:     e.Title,
		Body:      e.Body,
		Author:    e.Author,
		ImagePath: e.ImagePath,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToPostEntities(models []model.PostModel) []*entity.Post {
	posts := make([]*entity.Post, len(models))
	for i := range models {
		posts[i] = ToPostEntity(&models[i])
	}
	return posts
}

// toUpdateColumns maps the present fields of u to column names.
func toUpdateColumns(u entity.PostUpdate) map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Body != nil {
		cols["body"] = *u.Body
	}
	if u.ImagePath != nil {
		cols["image_path"] = *u.ImagePath
	}
	return cols
}
