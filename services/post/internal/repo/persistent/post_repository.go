package persistent

import (
	"context"
	"errors"
	"fmt"

	"blog-api/services/post/internal/entity"
	"blog-api/services/post/internal/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error)
	ListByStatus(ctx context.Context, status entity.PostStatus) ([]*entity.Post, error)
	Update(ctx context.Context, id string, update entity.PostUpdate) error
	UpdateImagePath(ctx context.Context, id, imagePath string) error
	CountByImagePath(ctx context.Context, imagePath string) (int64, error)
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) (*entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.PostModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var postModels []model.PostModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&postModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return ToPostEntities(postModels), total, nil
}

func (r *postRepository) ListByStatus(ctx context.Context, status entity.PostStatus) ([]*entity.Post, error) {
	var postModels []model.PostModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&postModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts by status: %w", err)
	}
	return ToPostEntities(postModels), nil
}

func (r *postRepository) Update(ctx context.Context, id string, update entity.PostUpdate) error {
	if update.IsEmpty() {
		return entity.ErrEmptyUpdate
	}

	result := r.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", id).
		Updates(toUpdateColumns(update))
	return affectedOne(result, "update post")
}

func (r *postRepository) UpdateImagePath(ctx context.Context, id, imagePath string) error {
	result := r.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", id).
		Update("image_path", imagePath)
	return affectedOne(result, "update image path")
}

func (r *postRepository) CountByImagePath(ctx context.Context, imagePath string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("image_path = ?", imagePath).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts by image path: %w", err)
	}
	return count, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.PostModel{}, "id = ?", id)
	return affectedOne(result, "delete post")
}

// ToggleStatus flips pending/completed in one UPDATE and returns the stored row.
func (r *postRepository) ToggleStatus(ctx context.Context, id string) (*entity.Post, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", id).
		Update("status", gorm.Expr(
			"CASE WHEN status = ? THEN ? ELSE ? END",
			string(entity.StatusPending), string(entity.StatusCompleted), string(entity.StatusPending),
		))
	if err := affectedOne(result, "toggle post status"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func affectedOne(result *gorm.DB, op string) error {
	if result.Error != nil {
		return fmt.Errorf("failed to %s: %w", op, result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}
