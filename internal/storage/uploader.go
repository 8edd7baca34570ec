package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-manager/internal/config"
)

// Uploader grava um objeto e devolve a URL pública.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// NewUploader escolhe S3 quando o bucket está configurado, disco local caso contrário.
func NewUploader(cfg *config.Config) Uploader {
	if cfg.UseS3() {
		return NewS3Uploader(cfg)
	}
	return NewLocalUploader(cfg.UploadDir, cfg.UploadPublicURL)
}

// ObjectKey gera a chave de uma foto de shop: shops/2026/10/<uuid>.webp
func ObjectKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%s.webp", prefix, now.Year(), now.Month(), uuid.NewString())
}

// --------------------------------------------------
// S3
// --------------------------------------------------

type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Uploader(cfg *config.Config) *S3Uploader {
	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		// MinIO / R2 e afins
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	base := strings.TrimRight(cfg.S3PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &S3Uploader{
		client:        s3.New(opts),
		bucket:        cfg.S3Bucket,
		publicBaseURL: base,
	}
}

func (u *S3Uploader) Upload(
	ctx context.Context,
	key, contentType string,
	body []byte,
) (string, error) {

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicBaseURL + "/" + key, nil
}

// --------------------------------------------------
// Local
// --------------------------------------------------

type LocalUploader struct {
	dir       string
	publicURL string
}

func NewLocalUploader(dir, publicURL string) *LocalUploader {
	return &LocalUploader{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (u *LocalUploader) Upload(
	_ context.Context,
	key, _ string,
	body []byte,
) (string, error) {

	clean := filepath.Clean("/" + key)
	full := filepath.Join(u.dir, clean)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(full, body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", full, err)
	}

	return u.publicURL + filepath.ToSlash(clean), nil
}
