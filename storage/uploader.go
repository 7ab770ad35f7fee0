package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUploadsDisabled is returned when no object storage is configured.
var ErrUploadsDisabled = errors.New("file uploads are disabled: object storage is not configured")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores tournament logos and team crests in object storage.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

type disabledUploader struct{}

// NewDisabledUploader returns an uploader that rejects every operation.
// Used when R2 credentials are absent so the rest of the application can
// run without object storage.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrUploadsDisabled
}

func (disabledUploader) Delete(context.Context, string) error { return ErrUploadsDisabled }

func (disabledUploader) GetPublicURL(string) string { return "" }
