package entity

import (
	"context"
	"time"
)

// Input is the raw request payload: an uploaded file or a text field.
type Input struct {
	File     []byte
	Filename string
	Text     string
}

// Empty reports whether neither a file nor text was supplied.
func (in Input) Empty() bool {
	return len(in.File) == 0 && in.Text == ""
}

type ComputeResult struct {
	Body        []byte
	ContentType string
	Encoded     string
}

type ComputeUsecase interface {
	Compute(ctx context.Context, route string, in Input) (*ComputeResult, error)
	Routes() []RouteInfo
}

type RouteInfo struct {
	Path    string
	Kind    string
	Methods []string
}

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ComputeRecord is the audit trail entry written for every compute request.
type ComputeRecord struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	RequestID   string        `gorm:"size:36;uniqueIndex" json:"request_id"`
	Route       string        `gorm:"size:255;index" json:"route"`
	Kind        string        `gorm:"size:32" json:"kind"`
	Status      string        `gorm:"size:16" json:"status"`
	Error       string        `gorm:"size:1024" json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
	ContentType string        `gorm:"size:64" json:"content_type,omitempty"`
	Size        int           `json:"size"`
	ArchiveKey  string        `gorm:"size:512" json:"archive_key,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ComputeRecorder interface {
	Record(ctx context.Context, rec *ComputeRecord, artifact []byte) error
}
