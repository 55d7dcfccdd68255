package backup

import (
	"context"
	"io"
	"time"
)

// Uploader stores an object under key.
type Uploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (*UploadResult, error)
}

// UploadResult describes a stored object.
type UploadResult struct {
	Key  string `json:"key"`
	ETag string `json:"etag,omitempty"`
	Size int64  `json:"size"`
}

// Backup copies the data files to an Uploader under a timestamped prefix.
type Backup struct {
	uploader Uploader
	prefix   string
	now      func() time.Time
}
