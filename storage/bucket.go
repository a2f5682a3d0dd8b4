// Package storage talks to the Supabase Storage bucket holding project preview images
// through its S3-compatible endpoint.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/daffadev/pamer-backend/config"
)

const (
	DefaultBucket = "project-images"
	DefaultRegion = "us-east-1"

	// PublicPathPrefix precedes the bucket name in every public object URL.
	PublicPathPrefix = "/storage/v1/object/public/"
)

// ObjectAPI is the subset of the S3 client the bucket needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type Bucket struct {
	client    ObjectAPI
	name      string
	publicURL string
	logger    zerolog.Logger
}

// NewBucket returns a bucket whose public URLs are rooted at supabaseURL.
func NewBucket(client ObjectAPI, name, supabaseURL string, logger zerolog.Logger) *Bucket {
	return &Bucket{
		client:    client,
		name:      name,
		publicURL: strings.TrimSuffix(supabaseURL, "/") + PublicPathPrefix + name + "/",
		logger:    logger.With().Str("bucket", name).Logger(),
	}
}

// NewFromConfig builds an S3 client for the Supabase storage endpoint described by c.
func NewFromConfig(c map[string]string, logger zerolog.Logger) (*Bucket, error) {
	supabaseURL := strings.TrimSuffix(config.GetString(c, "SUPABASE_URL", ""), "/")
	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required for image storage")
	}

	endpoint := config.GetString(c, "SUPABASE_S3_ENDPOINT", supabaseURL+"/storage/v1/s3")
	client := s3.New(s3.Options{
		Region: config.GetString(c, "SUPABASE_S3_REGION", DefaultRegion),
		Credentials: credentials.NewStaticCredentialsProvider(
			config.GetString(c, "SUPABASE_S3_ACCESS_KEY_ID", ""),
			config.GetString(c, "SUPABASE_S3_SECRET_ACCESS_KEY", ""),
			"",
		),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})

	return NewBucket(client, config.GetString(c, "STORAGE_BUCKET", DefaultBucket), supabaseURL, logger), nil
}

// Name returns the bucket name.
func (b *Bucket) Name() string {
	return b.name
}

// Upload stores body under key and returns the stored path. With overwrite unset an existing
// object makes the upload fail.
func (b *Bucket) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64, overwrite bool) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if !overwrite {
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	b.logger.Debug().Str("key", key).Int64("size", size).Msg("object uploaded")
	return key, nil
}

// PublicURL returns the public URL of a stored path.
func (b *Bucket) PublicURL(path string) string {
	return b.publicURL + strings.TrimPrefix(path, "/")
}

// Remove deletes the given paths. Missing objects are not an error.
func (b *Bucket) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(p)})
	}

	out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.name),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("delete %s: %s", aws.ToString(first.Key), aws.ToString(first.Message))
	}

	b.logger.Debug().Strs("keys", paths).Msg("objects removed")
	return nil
}
