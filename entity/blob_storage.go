package entity

import (
	"context"
	"io"
)

type StorageRepository interface {
	UploadObject(ctx context.Context, bucket string, key string, contentType string, r io.Reader) error
}
