package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"docextract/internal/config"
	"docextract/internal/port"
)

// Client is the S3-backed port.ObjectStorage used for report archives.
// A custom endpoint switches to path-style addressing for MinIO and
// LocalStack.
type Client struct {
	api       *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
}

// NewS3Client loads AWS configuration for the archive and builds a client.
// Static keys, when both are set, take precedence over the default chain.
func NewS3Client(ctx context.Context, cfg *config.ArchiveConfig) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{
		api:       api,
		presigner: s3.NewPresignClient(api),
		uploader: manager.NewUploader(api, func(u *manager.Uploader) {
			// reports are small JSON documents
			u.Concurrency = 1
		}),
	}, nil
}

var _ port.ObjectStorage = (*Client)(nil)

// Upload stores one object, attaching input.Metadata as user metadata.
func (c *Client) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	put := &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
		Metadata:    input.Metadata,
	}
	if input.Size > 0 {
		put.ContentLength = aws.Int64(input.Size)
	}

	result, err := c.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s/%s: %w", input.Bucket, input.Key, err)
	}
	return &port.UploadOutput{
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}

// GetPresignedURL returns a time-limited GET URL for the object.
func (c *Client) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Duration(expirySeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", bucket, key, err)
	}
	return result.URL, nil
}

// HeadBucket checks that the bucket exists and is reachable with the
// configured credentials.
func (c *Client) HeadBucket(ctx context.Context, bucket string) error {
	if _, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("s3 head bucket %s: %w", bucket, err)
	}
	return nil
}
