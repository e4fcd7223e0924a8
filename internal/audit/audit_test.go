package audit

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ailetic/entity"
)

type upload struct {
	bucket, key, contentType string
	body                     []byte
}

type fakeStorage struct {
	err     error
	uploads []upload
}

func (f *fakeStorage) UploadObject(_ context.Context, bucket, key, contentType string, r io.Reader) error {
	if f.err != nil {
		return f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.uploads = append(f.uploads, upload{bucket, key, contentType, body})
	return nil
}

func TestArchive_Record(t *testing.T) {
	storage := &fakeStorage{}
	a := NewArchive(storage, "results")

	rec := &entity.ComputeRecord{Route: "remove-background", Status: entity.StatusSucceeded, ContentType: "image/png"}
	require.NoError(t, a.Record(context.Background(), rec, []byte("png-bytes")))

	require.Len(t, storage.uploads, 1)
	up := storage.uploads[0]
	assert.Equal(t, "results", up.bucket)
	assert.Equal(t, "image/png", up.contentType)
	assert.Equal(t, []byte("png-bytes"), up.body)
	assert.True(t, strings.HasPrefix(up.key, "remove-background/"))
	assert.True(t, strings.HasSuffix(up.key, ".png"))
	assert.Equal(t, up.key, rec.ArchiveKey)
}

func TestArchive_SkipsFailures(t *testing.T) {
	storage := &fakeStorage{}
	a := NewArchive(storage, "results")

	rec := &entity.ComputeRecord{Route: "r", Status: entity.StatusFailed}
	require.NoError(t, a.Record(context.Background(), rec, nil))
	assert.Empty(t, storage.uploads)
	assert.Empty(t, rec.ArchiveKey)
}

func TestArchive_UploadError(t *testing.T) {
	a := NewArchive(&fakeStorage{err: errors.New("denied")}, "results")

	rec := &entity.ComputeRecord{Route: "r", Status: entity.StatusSucceeded, ContentType: "audio/mpeg"}
	err := a.Record(context.Background(), rec, []byte("x"))
	assert.Error(t, err)
	assert.Empty(t, rec.ArchiveKey)
}

func TestArchiveKey(t *testing.T) {
	tests := []struct {
		contentType string
		suffix      string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpeg"},
		{"audio/mpeg", ".mp3"},
		{"audio/x-wav", ".wav"},
		{"application/octet-stream", ".bin"},
		{"", ".bin"},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			key := ArchiveKey("route", tt.contentType)
			assert.True(t, strings.HasSuffix(key, tt.suffix), key)
		})
	}

	assert.NotEqual(t, ArchiveKey("r", "image/png"), ArchiveKey("r", "image/png"))
}

type funcRecorder func(ctx context.Context, rec *entity.ComputeRecord, artifact []byte) error

func (f funcRecorder) Record(ctx context.Context, rec *entity.ComputeRecord, artifact []byte) error {
	return f(ctx, rec, artifact)
}

func TestChain_Record(t *testing.T) {
	var order []string
	first := funcRecorder(func(_ context.Context, rec *entity.ComputeRecord, _ []byte) error {
		order = append(order, "first")
		rec.ArchiveKey = "k"
		return errors.New("first failed")
	})
	second := funcRecorder(func(_ context.Context, rec *entity.ComputeRecord, _ []byte) error {
		order = append(order, "second:"+rec.ArchiveKey)
		return nil
	})

	err := Chain{first, second}.Record(context.Background(), &entity.ComputeRecord{}, nil)
	assert.ErrorContains(t, err, "first failed")
	assert.Equal(t, []string{"first", "second:k"}, order)

	assert.NoError(t, Chain{}.Record(context.Background(), &entity.ComputeRecord{}, nil))
}
