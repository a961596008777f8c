package port

import (
	"context"
	"io"

	"docextract/internal/domain"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	Metadata    map[string]string
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
	HeadBucket(ctx context.Context, bucket string) error
}

// ReportArchive stores finished confidence reports and returns their location.
type ReportArchive interface {
	Archive(ctx context.Context, report *domain.DocumentConfidenceReport) (string, error)
}
