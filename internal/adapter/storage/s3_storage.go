package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/plastinin/renderclient/internal/config"
)

const presignExpiry = time.Hour

// S3Store хранилище результатов на базе S3/MinIO
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store создаёт новый экземпляр S3Store
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Проверяем/создаём bucket
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Save загружает результат в bucket и возвращает presigned URL на него
func (s *S3Store) Save(ctx context.Context, name string, contentType string, reader io.Reader, size int64) (string, error) {
	key := objectKey(time.Now(), uuid.NewString(), name)

	if size <= 0 {
		size = -1
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload result: %w", err)
	}

	return s.GetURL(ctx, key)
}

// GetURL возвращает presigned URL для доступа к объекту
func (s *S3Store) GetURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return u.String(), nil
}

// objectKey формирует ключ вида year/month/day/uuid/filename
func objectKey(now time.Time, id, name string) string {
	return path.Join(
		now.Format("2006"),
		now.Format("01"),
		now.Format("02"),
		id,
		path.Base(name),
	)
}
