// Package storage keeps uploaded post images either on local disk or in S3.
package storage

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// newFileName returns "<uuid><ext>" where ext is taken from the client file name.
func newFileName(original string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(original))
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
