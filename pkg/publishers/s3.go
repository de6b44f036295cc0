package publishers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectPutter is the subset of *minio.Client used by s3Sender.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// s3Sender archives each event as a JSON object in an S3-compatible bucket.
type s3Sender struct {
	bucket string
	prefix string
	client objectPutter
}

func newS3Publisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("publisher %q missing s3 configuration", cfg.ID)
	}

	client, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		Secure: cfg.S3.UseSSL,
		Region: cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &s3Sender{bucket: cfg.S3.Bucket, prefix: cfg.S3.Prefix, client: client}
	return newQueuePublisher(cfg.ID, TypeS3, s, log), nil
}

func (s *s3Sender) Send(ctx context.Context, evt Event) error {
	payload, err := evt.payload()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := s.objectKey(evt)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{
			ContentType:  "application/json",
			UserMetadata: evt.attributes(),
		})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// objectKey lays objects out as <prefix>/<provider>/<yyyy>/<mm>/<dd>/<article>.json.
func (s *s3Sender) objectKey(evt Event) string {
	day := evt.CollectedAt.UTC().Format("2006/01/02")
	return path.Join(s.prefix, sanitizeKey(evt.ProviderID), day, sanitizeKey(evt.Article.ID)+".json")
}

func (s *s3Sender) Close() error { return nil }

func sanitizeKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
