package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/port"
)

// ReportArchiver writes confidence reports to object storage as JSON under
// <prefix>/<yyyy>/<mm>/<dd>/<doc_type>/<uuid>.json. It implements
// port.ReportArchive.
type ReportArchiver struct {
	storage       port.ObjectStorage
	bucket        string
	prefix        string
	presignExpiry int64
	logger        *zap.Logger
	now           func() time.Time
}

// NewReportArchiver creates an archiver backed by the given storage.
func NewReportArchiver(storage port.ObjectStorage, cfg *config.ArchiveConfig, logger *zap.Logger) *ReportArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportArchiver{
		storage:       storage,
		bucket:        cfg.Bucket,
		prefix:        cfg.Prefix,
		presignExpiry: cfg.PresignExpiry,
		logger:        logger,
		now:           time.Now,
	}
}

// Archive uploads the report and returns a presigned download URL, or the
// upload location when presigning is disabled.
func (a *ReportArchiver) Archive(ctx context.Context, report *domain.DocumentConfidenceReport) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling report: %v", domain.ErrArchiveFailed, err)
	}

	key := a.objectKey(report.DocType)
	out, err := a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.bucket,
		Key:         key,
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
		Size:        int64(len(body)),
		Metadata: map[string]string{
			"doc-type":           report.DocType,
			"overall-confidence": strconv.FormatFloat(report.OverallConfidence, 'f', 2, 64),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrArchiveFailed, err)
	}

	a.logger.Info("s3.ReportArchiver.Archive: report archived",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
		zap.String("doc_type", report.DocType),
	)

	if a.presignExpiry <= 0 {
		return out.Location, nil
	}
	url, err := a.storage.GetPresignedURL(ctx, a.bucket, key, a.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrArchiveFailed, err)
	}
	return url, nil
}

// Ready checks that the archive bucket is reachable.
func (a *ReportArchiver) Ready(ctx context.Context) error {
	if err := a.storage.HeadBucket(ctx, a.bucket); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrArchiveFailed, err)
	}
	return nil
}

func (a *ReportArchiver) objectKey(docType string) string {
	now := a.now().UTC()
	return path.Join(
		a.prefix,
		now.Format("2006"), now.Format("01"), now.Format("02"),
		docType,
		uuid.New().String()+".json",
	)
}
