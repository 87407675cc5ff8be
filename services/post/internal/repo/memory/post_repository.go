// Package memory is a process-local PostRepository used when DB_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"blog-api/services/post/internal/entity"
	"blog-api/services/post/internal/repo/persistent"

	"github.com/google/uuid"
)

type postRepository struct {
	mu    sync.RWMutex
	posts map[string]entity.Post
	now   func() time.Time
}

func NewPostRepository() persistent.PostRepository {
	return &postRepository{
		posts: make(map[string]entity.Post),
		now:   time.Now,
	}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Status == "" {
		post.Status = entity.StatusPending
	}
	now := r.now()
	post.CreatedAt = now
	post.UpdatedAt = now

	r.posts[post.ID] = clonePost(*post)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, entity.ErrPostNotFound
	}
	out := clonePost(p)
	return &out, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted(func(entity.Post) bool { return true })
	total := int64(len(all))

	if offset < 0 || offset >= len(all) {
		return []*entity.Post{}, total, nil
	}
	end := len(all)
	if limit >= 0 && limit < end-offset {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *postRepository) ListByStatus(ctx context.Context, status entity.PostStatus) ([]*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(p entity.Post) bool { return p.Status == status }), nil
}

func (r *postRepository) Update(ctx context.Context, id string, update entity.PostUpdate) error {
	if update.IsEmpty() {
		return entity.ErrEmptyUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return entity.ErrPostNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Body != nil {
		p.Body = *update.Body
	}
	if update.ImagePath != nil {
		path := *update.ImagePath
		p.ImagePath = &path
	}
	p.UpdatedAt = r.now()
	r.posts[id] = p
	return nil
}

func (r *postRepository) UpdateImagePath(ctx context.Context, id, imagePath string) error {
	return r.Update(ctx, id, entity.PostUpdate{ImagePath: &imagePath})
}

func (r *postRepository) CountByImagePath(ctx context.Context, imagePath string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.posts {
		if p.ImagePath != nil && *p.ImagePath == imagePath {
			n++
		}
	}
	return n, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return entity.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *postRepository) ToggleStatus(ctx context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, entity.ErrPostNotFound
	}
	p.Status = p.Status.Toggled()
	p.UpdatedAt = r.now()
	r.posts[id] = p

	out := clonePost(p)
	return &out, nil
}

// sorted returns matching posts newest first. Callers hold the lock.
func (r *postRepository) sorted(keep func(entity.Post) bool) []*entity.Post {
	out := make([]*entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if keep(p) {
			c := clonePost(p)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func clonePost(p entity.Post) entity.Post {
	if p.ImagePath != nil {
		path := *p.ImagePath
		p.ImagePath = &path
	}
	return p
}
