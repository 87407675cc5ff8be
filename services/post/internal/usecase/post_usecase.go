package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"time"

	"blog-api/pkg/cache"
	"blog-api/pkg/logger"
	"blog-api/pkg/metrics"
	"blog-api/services/post/internal/entity"
	"blog-api/services/post/internal/repo/persistent"
)

// Routing keys published on the post_events exchange.
const (
	EventPostCreated       = "post.created"
	EventPostUpdated       = "post.updated"
	EventPostDeleted       = "post.deleted"
	EventPostStatusToggled = "post.status_toggled"
	EventPostImageUploaded = "post.image_uploaded"
)

type PostUseCase interface {
	CreatePost(ctx context.Context, title, body, author string, imagePath *string) (*entity.Post, error)
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	ListPosts(ctx context.Context, page, limit int) (*entity.PostPage, error)
	ListPostsByStatus(ctx context.Context, status entity.PostStatus) ([]*entity.Post, error)
	UpdatePost(ctx context.Context, id string, update entity.PostUpdate) error
	DeletePost(ctx context.Context, id string) error
	TogglePostStatus(ctx context.Context, id string) (*entity.Post, error)
	UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error)
}

type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, path string) error
}

type PostCache interface {
	Get(ctx context.Context, id string) (*entity.Post, error)
	Set(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// PostEvent is the message body of every post lifecycle event.
type PostEvent struct {
	Event      string            `json:"event"`
	PostID     string            `json:"post_id"`
	Status     entity.PostStatus `json:"status,omitempty"`
	ImagePath  string            `json:"image_path,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type postUseCase struct {
	postRepo  persistent.PostRepository
	images    ImageStore
	postCache PostCache
	events    EventPublisher
	logger    *logger.Logger
}

// NewPostUseCase wires the post operations. postCache and events may be nil.
func NewPostUseCase(
	postRepo persistent.PostRepository,
	images ImageStore,
	postCache PostCache,
	events EventPublisher,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:  postRepo,
		images:    images,
		postCache: postCache,
		events:    events,
		logger:    logger,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, title, body, author string, imagePath *string) (*entity.Post, error) {
	post := &entity.Post{
		Title:     title,
		Body:      body,
		Author:    author,
		ImagePath: imagePath,
		Status:    entity.StatusPending,
	}

	err := uc.postRepo.Create(ctx, post)
	metrics.RecordPostOperation("create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.logger.Info("Post created: id=%s author=%s", post.ID, post.Author)
	uc.publish(ctx, EventPostCreated, post, "")
	return post, nil
}

func (uc *postUseCase) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	if uc.postCache != nil {
		post, err := uc.postCache.Get(ctx, id)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("[CACHE] Failed to read post %s: %v", id, err)
		}
	}

	post, err := uc.postRepo.GetByID(ctx, id)
	metrics.RecordPostOperation("get", ignoreNotFound(err))
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	uc.cacheSet(ctx, post)
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, page, limit int) (*entity.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	// Pages past what an int offset can address are past the end.
	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	posts, total, err := uc.postRepo.List(ctx, limit, offset)
	metrics.RecordPostOperation("list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return entity.NewPostPage(posts, total, page, limit), nil
}

func (uc *postUseCase) ListPostsByStatus(ctx context.Context, status entity.PostStatus) ([]*entity.Post, error) {
	if !status.Valid() {
		return nil, entity.ErrInvalidStatus
	}

	posts, err := uc.postRepo.ListByStatus(ctx, status)
	metrics.RecordPostOperation("list_by_status", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by status: %w", err)
	}
	if posts == nil {
		posts = []*entity.Post{}
	}
	return posts, nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, id string, update entity.PostUpdate) error {
	if update.IsEmpty() {
		return entity.ErrEmptyUpdate
	}

	err := uc.postRepo.Update(ctx, id, update)
	metrics.RecordPostOperation("update", ignoreNotFound(err))
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	uc.cacheDelete(ctx, id)
	uc.publish(ctx, EventPostUpdated, &entity.Post{ID: id}, "")
	return nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, id string) error {
	err := uc.postRepo.Delete(ctx, id)
	metrics.RecordPostOperation("delete", ignoreNotFound(err))
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	uc.logger.Info("Post deleted: id=%s", id)
	uc.cacheDelete(ctx, id)
	uc.publish(ctx, EventPostDeleted, &entity.Post{ID: id}, "")
	return nil
}

func (uc *postUseCase) TogglePostStatus(ctx context.Context, id string) (*entity.Post, error) {
	post, err := uc.postRepo.ToggleStatus(ctx, id)
	metrics.RecordPostOperation("toggle_status", ignoreNotFound(err))
	if err != nil {
		return nil, fmt.Errorf("failed to toggle post status: %w", err)
	}

	uc.cacheSet(ctx, post)
	uc.publish(ctx, EventPostStatusToggled, post, "")
	return post, nil
}

// UploadImage stores file and points the post at it. The previously attached image
// is removed afterwards unless another post still references it.
func (uc *postUseCase) UploadImage(ctx context.Context, id string, file *multipart.FileHeader) (string, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get post: %w", err)
	}

	imagePath, err := uc.images.Save(ctx, file)
	if err != nil {
		metrics.RecordPostOperation("upload_image", err)
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	metrics.ImageUploadBytes.Observe(float64(file.Size))

	if err := uc.postRepo.UpdateImagePath(ctx, id, imagePath); err != nil {
		metrics.RecordPostOperation("upload_image", ignoreNotFound(err))
		if delErr := uc.images.Delete(ctx, imagePath); delErr != nil {
			uc.logger.Warn("Failed to remove orphaned image %s: %v", imagePath, delErr)
		}
		return "", fmt.Errorf("failed to update image path: %w", err)
	}
	metrics.RecordPostOperation("upload_image", nil)

	if post.ImagePath != nil && *post.ImagePath != "" && *post.ImagePath != imagePath {
		uc.removeUnreferencedImage(ctx, id, *post.ImagePath)
	}

	uc.logger.Info("Image uploaded: post_id=%s path=%s size=%d", id, imagePath, file.Size)
	uc.cacheDelete(ctx, id)
	uc.publish(ctx, EventPostImageUploaded, post, imagePath)
	return imagePath, nil
}

// removeUnreferencedImage deletes path once no post points at it any more.
func (uc *postUseCase) removeUnreferencedImage(ctx context.Context, postID, path string) {
	refs, err := uc.postRepo.CountByImagePath(ctx, path)
	if err != nil {
		uc.logger.Warn("Keeping previous image %s of post %s: %v", path, postID, err)
		return
	}
	if refs > 0 {
		return
	}
	if err := uc.images.Delete(ctx, path); err != nil {
		uc.logger.Warn("Failed to remove previous image %s of post %s: %v", path, postID, err)
	}
}

func (uc *postUseCase) cacheSet(ctx context.Context, post *entity.Post) {
	if uc.postCache == nil {
		return
	}
	if err := uc.postCache.Set(ctx, post); err != nil {
		uc.logger.Warn("[CACHE] Failed to cache post %s: %v", post.ID, err)
	}
}

func (uc *postUseCase) cacheDelete(ctx context.Context, id string) {
	if uc.postCache == nil {
		return
	}
	if err := uc.postCache.Delete(ctx, id); err != nil {
		uc.logger.Warn("[CACHE] Failed to invalidate post %s: %v", id, err)
	}
}

func (uc *postUseCase) publish(ctx context.Context, routingKey string, post *entity.Post, imagePath string) {
	if uc.events == nil {
		return
	}

	event := PostEvent{
		Event:      routingKey,
		PostID:     post.ID,
		Status:     post.Status,
		ImagePath:  imagePath,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.events.Publish(ctx, routingKey, event); err != nil {
		uc.logger.Error("[EVENTS] Failed to publish %s for post %s: %v", routingKey, post.ID, err)
	}
}

// ignoreNotFound keeps 404s out of the failure counters.
func ignoreNotFound(err error) error {
	if errors.Is(err, entity.ErrPostNotFound) {
		return nil
	}
	return err
}
