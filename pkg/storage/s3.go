package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

const s3KeyPrefix = "posts/images/"

// ObjectClient is the subset of the S3 client the store needs.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

type S3Store struct {
	client ObjectClient
}

func NewS3Store(client ObjectClient) *S3Store {
	return &S3Store{client: client}
}

func (s *S3Store) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.client.UploadFile(ctx, s3KeyPrefix+newFileName(fh.Filename), src, contentType(fh))
}

// Delete removes an object previously returned by Save. URLs outside the bucket
// or outside the post image prefix are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := s.client.KeyFromURL(url)
	if !ok {
		return nil
	}
	name := strings.TrimPrefix(key, s3KeyPrefix)
	if name == key || name == "" || strings.Contains(name, "/") {
		return nil
	}
	return s.client.DeleteFile(ctx, key)
}
