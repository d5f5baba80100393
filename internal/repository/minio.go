package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// ErrFileNotFound is returned when the requested object does not exist in
// the bucket, distinguishable from transport or server failures.
var ErrFileNotFound = errors.New("file not found in storage")

type MinIORepository struct {
	client *minio.Client
	bucket string
	region string
	logger zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIORepository(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, connectTimeout time.Duration, logger zerolog.Logger) (*MinIORepository, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &MinIORepository{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}

	// Best-effort bootstrap: do not fail the whole service when MinIO is
	// not ready at startup; the bucket is re-ensured on demand.
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repo.ensureBucket(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("bucket", bucket).
			Msg("MinIO not ready during startup; will retry on demand")
	}

	logger.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Bool("ssl", useSSL).
		Msg("Connected to MinIO")

	return repo, nil
}

func (r *MinIORepository) ensureBucket(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketEnsured {
		return nil
	}

	backoff := 500 * time.Millisecond
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("minio not ready: %w", err)
		}

		if _, err := r.client.ListBuckets(ctx); err != nil {
			time.Sleep(backoff)
			continue
		}

		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err != nil {
			time.Sleep(backoff)
			continue
		}

		if !exists {
			if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
				time.Sleep(backoff)
				continue
			}
			r.logger.Info().Str("bucket", r.bucket).Msg("Created new bucket")
		}

		r.bucketEnsured = true
		return nil
	}
}

// UploadStream writes one object and returns its public URL in the form
// {endpoint}/{bucket}/{escaped-key}. Size may be -1 when unknown; the
// client then streams in parts.
func (r *MinIORepository) UploadStream(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadInfo, err := r.client.PutObject(ctx, r.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("key", key).
		Str("etag", uploadInfo.ETag).
		Msg("Object uploaded to MinIO")

	return r.ObjectURL(key), nil
}

// DownloadFile accepts a bare key or a full object URL.
func (r *MinIORepository) DownloadFile(ctx context.Context, fileLocation string) (io.ReadCloser, string, int64, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, "", 0, err
	}

	key := r.ExtractKey(fileLocation)

	objInfo, err := r.client.StatObject(ctx, r.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", 0, fmt.Errorf("%w: %s", ErrFileNotFound, key)
		}
		return nil, "", 0, fmt.Errorf("failed to stat object: %w", err)
	}

	object, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to get object: %w", err)
	}

	contentType := objInfo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("key", key).
		Int64("size", objInfo.Size).
		Msg("Object downloaded from MinIO")

	return object, contentType, objInfo.Size, nil
}

func (r *MinIORepository) ObjectURL(key string) string {
	endpoint := strings.TrimRight(r.client.EndpointURL().String(), "/")
	return fmt.Sprintf("%s/%s/%s", endpoint, r.bucket, url.PathEscape(key))
}

// ExtractKey recovers a storage key from either a bare key or a full object
// URL, stripping a leading bucket-name segment when present.
func (r *MinIORepository) ExtractKey(fileLocation string) string {
	return ExtractKey(fileLocation, r.bucket)
}

func ExtractKey(fileLocation, bucket string) string {
	trimmed := strings.TrimSpace(fileLocation)

	if u, err := url.Parse(trimmed); err == nil && u.IsAbs() {
		p := strings.TrimPrefix(u.Path, "/")
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
		prefix := bucket + "/"
		if len(p) >= len(prefix) && strings.EqualFold(p[:len(prefix)], prefix) {
			p = p[len(prefix):]
		}
		return p
	}

	return strings.TrimPrefix(trimmed, "/")
}
