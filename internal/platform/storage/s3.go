package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Store implements Store on any S3-compatible backend (AWS S3, R2).
type S3Store struct {
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store constructs an S3Store from configuration. A custom Endpoint
// switches the client into path-style addressing (required by R2 and minio).
func NewS3Store(cfg Config) (*S3Store, error) {
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: s3 session: %w", err)
	}
	return &S3Store{
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// Put uploads the blob and returns its path within the bucket.
func (s *S3Store) Put(ctx context.Context, bucket string, up Upload) (string, error) {
	name := blobName(bucket, up.Filename)
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   up.Content,
	}
	if up.ContentType != "" {
		input.ContentType = aws.String(up.ContentType)
	}
	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("storage: s3 upload: %w", err)
	}
	return name, nil
}

// URL returns the public URL for a blob path.
func (s *S3Store) URL(blobPath string) string {
	return s.baseURL + "/" + blobPath
}

// Delete removes a blob from the bucket.
func (s *S3Store) Delete(ctx context.Context, blobPath string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobPath),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 delete: %w", err)
	}
	return nil
}

// Exists checks whether a blob is present in the bucket.
func (s *S3Store) Exists(ctx context.Context, blobPath string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobPath),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("storage: s3 head: %w", err)
	}
	return true, nil
}

// List returns all blob paths under a bucket prefix.
func (s *S3Store) List(ctx context.Context, bucket string) ([]string, error) {
	var paths []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(bucket + "/"),
	}
	err := s.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			paths = append(paths, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("storage: s3 list: %w", err)
	}
	return paths, nil
}

var _ Store = (*S3Store)(nil)
