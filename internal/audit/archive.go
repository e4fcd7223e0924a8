package audit

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ailetic/entity"
)

const traceName = "audit"

// Archive stores the encoded result of every successful request in a bucket.
type Archive struct {
	storage entity.StorageRepository
	bucket  string
}

func NewArchive(storage entity.StorageRepository, bucket string) *Archive {
	return &Archive{storage: storage, bucket: bucket}
}

func (a *Archive) Record(ctx context.Context, rec *entity.ComputeRecord, artifact []byte) error {
	if rec.Status != entity.StatusSucceeded || len(artifact) == 0 {
		return nil
	}

	ctx, span := otel.Tracer(traceName).Start(ctx, "Archive")
	defer span.End()

	key := ArchiveKey(rec.Route, rec.ContentType)
	span.SetAttributes(attribute.String("bucket", a.bucket))
	span.SetAttributes(attribute.String("key", key))

	if err := a.storage.UploadObject(ctx, a.bucket, key, rec.ContentType, bytes.NewReader(artifact)); err != nil {
		return errors.Wrapf(err, "archive %s", key)
	}

	rec.ArchiveKey = key
	return nil
}

// ArchiveKey builds <route>/<ksuid>.<ext>. ksuids sort by creation time.
func ArchiveKey(route, contentType string) string {
	return fmt.Sprintf("%s/%s.%s", route, ksuid.New().String(), extension(contentType))
}

func extension(contentType string) string {
	_, sub, ok := strings.Cut(contentType, "/")
	if !ok || sub == "" {
		return "bin"
	}
	switch sub {
	case "mpeg":
		return "mp3"
	case "x-wav", "wave":
		return "wav"
	case "octet-stream":
		return "bin"
	}
	return sub
}
