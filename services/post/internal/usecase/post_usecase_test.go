package usecase

import (
	"bytes"
	"context"
	"errors"
	"math"
	"mime/multipart"
	"testing"

	"blog-api/pkg/cache"
	"blog-api/pkg/logger"
	"blog-api/services/post/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testID = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	if args.Error(0) == nil {
		post.ID = testID
	}
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int) ([]*entity.Post, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListByStatus(ctx context.Context, status entity.PostStatus) ([]*entity.Post, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, id string, update entity.PostUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockPostRepository) UpdateImagePath(ctx context.Context, id, imagePath string) error {
	args := m.Called(ctx, id, imagePath)
	return args.Error(0)
}

func (m *MockPostRepository) CountByImagePath(ctx context.Context, imagePath string) (int64, error) {
	args := m.Called(ctx, imagePath)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleStatus(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockPostCache struct {
	mock.Mock
}

func (m *MockPostCache) Get(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostCache) Set(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostCache) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func newFileHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func newBareUseCase(repo *MockPostRepository, images *MockImageStore) PostUseCase {
	return NewPostUseCase(repo, images, nil, nil, logger.New())
}

func TestCreatePost(t *testing.T) {
	repo := new(MockPostRepository)
	events := new(MockEventPublisher)
	uc := NewPostUseCase(repo, nil, nil, events, logger.New())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Post) bool {
		return p.Title == "hello" && p.Status == entity.StatusPending && p.ImagePath == nil
	})).Return(nil)
	events.On("Publish", mock.Anything, EventPostCreated, mock.MatchedBy(func(e PostEvent) bool {
		return e.PostID == testID && e.Event == EventPostCreated
	})).Return(nil)

	post, err := uc.CreatePost(context.Background(), "hello", "world", "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, testID, post.ID)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreatePost_PublishFailureIgnored(t *testing.T) {
	repo := new(MockPostRepository)
	events := new(MockEventPublisher)
	uc := NewPostUseCase(repo, nil, nil, events, logger.New())

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", mock.Anything, EventPostCreated, mock.Anything).Return(errors.New("broker down"))

	_, err := uc.CreatePost(context.Background(), "hello", "world", "alice", nil)
	assert.NoError(t, err)
}

func TestCreatePost_RepoError(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := uc.CreatePost(context.Background(), "hello", "world", "alice", nil)
	assert.Error(t, err)
}

func TestGetPost_CacheHit(t *testing.T) {
	repo := new(MockPostRepository)
	postCache := new(MockPostCache)
	uc := NewPostUseCase(repo, nil, postCache, nil, logger.New())

	postCache.On("Get", mock.Anything, testID).Return(&entity.Post{ID: testID, Title: "cached"}, nil)

	post, err := uc.GetPost(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, "cached", post.Title)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetPost_CacheMissFillsCache(t *testing.T) {
	repo := new(MockPostRepository)
	postCache := new(MockPostCache)
	uc := NewPostUseCase(repo, nil, postCache, nil, logger.New())
	stored := &entity.Post{ID: testID, Title: "hello"}

	postCache.On("Get", mock.Anything, testID).Return(nil, cache.ErrCacheMiss)
	repo.On("GetByID", mock.Anything, testID).Return(stored, nil)
	postCache.On("Set", mock.Anything, stored).Return(nil)

	post, err := uc.GetPost(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, stored, post)
	postCache.AssertExpectations(t)
}

func TestGetPost_NotFound(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	repo.On("GetByID", mock.Anything, testID).Return(nil, entity.ErrPostNotFound)

	_, err := uc.GetPost(context.Background(), testID)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestListPosts_Pagination(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	repo.On("List", mock.Anything, 10, 20).Return([]*entity.Post{}, int64(21), nil)

	page, err := uc.ListPosts(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.Page)
	assert.Empty(t, page.Posts)
}

func TestListPosts_OffsetOverflowIsPastTheEnd(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	repo.On("List", mock.Anything, 100, math.MaxInt).Return([]*entity.Post{}, int64(2), nil)

	page, err := uc.ListPosts(context.Background(), math.MaxInt/10, 100)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt/10, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Posts)
	repo.AssertExpectations(t)
}

func TestListPostsByStatus(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	repo.On("ListByStatus", mock.Anything, entity.StatusCompleted).Return([]*entity.Post{{ID: testID}}, nil)

	posts, err := uc.ListPostsByStatus(context.Background(), entity.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = uc.ListPostsByStatus(context.Background(), entity.PostStatus("archived"))
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
}

func TestUpdatePost(t *testing.T) {
	repo := new(MockPostRepository)
	postCache := new(MockPostCache)
	uc := NewPostUseCase(repo, nil, postCache, nil, logger.New())
	body := "new body"
	update := entity.PostUpdate{Body: &body}

	repo.On("Update", mock.Anything, testID, update).Return(nil)
	postCache.On("Delete", mock.Anything, testID).Return(nil)

	require.NoError(t, uc.UpdatePost(context.Background(), testID, update))
	repo.AssertExpectations(t)
	postCache.AssertExpectations(t)
}

func TestUpdatePost_Empty(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	err := uc.UpdatePost(context.Background(), testID, entity.PostUpdate{})
	assert.ErrorIs(t, err, entity.ErrEmptyUpdate)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePost_NotFound(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)
	body := "new body"

	repo.On("Update", mock.Anything, testID, mock.Anything).Return(entity.ErrPostNotFound)

	err := uc.UpdatePost(context.Background(), testID, entity.PostUpdate{Body: &body})
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	repo := new(MockPostRepository)
	events := new(MockEventPublisher)
	uc := NewPostUseCase(repo, nil, nil, events, logger.New())

	repo.On("Delete", mock.Anything, testID).Return(nil)
	events.On("Publish", mock.Anything, EventPostDeleted, mock.Anything).Return(nil)

	require.NoError(t, uc.DeletePost(context.Background(), testID))
	events.AssertExpectations(t)
}

func TestDeletePost_NotFound(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	repo.On("Delete", mock.Anything, testID).Return(entity.ErrPostNotFound)

	assert.ErrorIs(t, uc.DeletePost(context.Background(), testID), entity.ErrPostNotFound)
}

func TestTogglePostStatus(t *testing.T) {
	repo := new(MockPostRepository)
	uc := newBareUseCase(repo, nil)

	repo.On("ToggleStatus", mock.Anything, testID).Return(&entity.Post{ID: testID, Status: entity.StatusCompleted}, nil)

	post, err := uc.TogglePostStatus(context.Background(), testID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, post.Status)
}

func TestUploadImage_ReplacesPrevious(t *testing.T) {
	repo := new(MockPostRepository)
	images := new(MockImageStore)
	uc := newBareUseCase(repo, images)
	file := newFileHeader(t)
	old := "/uploads/images/old.png"

	repo.On("GetByID", mock.Anything, testID).Return(&entity.Post{ID: testID, ImagePath: &old}, nil)
	images.On("Save", mock.Anything, file).Return("/uploads/images/new.png", nil)
	repo.On("UpdateImagePath", mock.Anything, testID, "/uploads/images/new.png").Return(nil)
	repo.On("CountByImagePath", mock.Anything, old).Return(int64(0), nil)
	images.On("Delete", mock.Anything, old).Return(errors.New("permission denied"))

	path, err := uc.UploadImage(context.Background(), testID, file)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/images/new.png", path)
	repo.AssertExpectations(t)
	images.AssertExpectations(t)
}

func TestUploadImage_KeepsPreviousStillReferenced(t *testing.T) {
	repo := new(MockPostRepository)
	images := new(MockImageStore)
	uc := newBareUseCase(repo, images)
	file := newFileHeader(t)
	shared := "/uploads/images/shared.png"

	repo.On("GetByID", mock.Anything, testID).Return(&entity.Post{ID: testID, ImagePath: &shared}, nil)
	images.On("Save", mock.Anything, file).Return("/uploads/images/new.png", nil)
	repo.On("UpdateImagePath", mock.Anything, testID, "/uploads/images/new.png").Return(nil)
	repo.On("CountByImagePath", mock.Anything, shared).Return(int64(1), nil)

	_, err := uc.UploadImage(context.Background(), testID, file)
	require.NoError(t, err)
	images.AssertNotCalled(t, "Delete", mock.Anything, shared)
}

func TestUploadImage_KeepsPreviousOnCountError(t *testing.T) {
	repo := new(MockPostRepository)
	images := new(MockImageStore)
	uc := newBareUseCase(repo, images)
	file := newFileHeader(t)
	old := "/uploads/images/old.png"

	repo.On("GetByID", mock.Anything, testID).Return(&entity.Post{ID: testID, ImagePath: &old}, nil)
	images.On("Save", mock.Anything, file).Return("/uploads/images/new.png", nil)
	repo.On("UpdateImagePath", mock.Anything, testID, "/uploads/images/new.png").Return(nil)
	repo.On("CountByImagePath", mock.Anything, old).Return(int64(0), errors.New("connection reset"))

	_, err := uc.UploadImage(context.Background(), testID, file)
	require.NoError(t, err)
	images.AssertNotCalled(t, "Delete", mock.Anything, old)
}

func TestUploadImage_PostNotFound(t *testing.T) {
	repo := new(MockPostRepository)
	images := new(MockImageStore)
	uc := newBareUseCase(repo, images)

	repo.On("GetByID", mock.Anything, testID).Return(nil, entity.ErrPostNotFound)

	_, err := uc.UploadImage(context.Background(), testID, newFileHeader(t))
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
	images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUploadImage_PostDeletedMeanwhile(t *testing.T) {
	repo := new(MockPostRepository)
	images := new(MockImageStore)
	uc := newBareUseCase(repo, images)
	file := newFileHeader(t)

	repo.On("GetByID", mock.Anything, testID).Return(&entity.Post{ID: testID}, nil)
	images.On("Save", mock.Anything, file).Return("/uploads/images/new.png", nil)
	repo.On("UpdateImagePath", mock.Anything, testID, "/uploads/images/new.png").Return(entity.ErrPostNotFound)
	images.On("Delete", mock.Anything, "/uploads/images/new.png").Return(nil)

	_, err := uc.UploadImage(context.Background(), testID, file)
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
	images.AssertExpectations(t)
}

func TestUploadImage_StoreError(t *testing.T) {
	repo := new(MockPostRepository)
	images := new(MockImageStore)
	uc := newBareUseCase(repo, images)
	file := newFileHeader(t)

	repo.On("GetByID", mock.Anything, testID).Return(&entity.Post{ID: testID}, nil)
	images.On("Save", mock.Anything, file).Return("", errors.New("disk full"))

	_, err := uc.UploadImage(context.Background(), testID, file)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateImagePath", mock.Anything, mock.Anything, mock.Anything)
}
