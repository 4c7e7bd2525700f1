// Package storage uploads meal images to S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/iliyamo/dining-hall/internal/config"
)

// ErrUnsupportedImage is returned for files whose extension is not an
// accepted image type.
var ErrUnsupportedImage = errors.New("unsupported image type")

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// S3Uploader puts objects under meals/ in one bucket and returns their
// public URL.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	region    string
	publicURL string
}

// NewS3Uploader loads credentials from the default AWS chain.
func NewS3Uploader(ctx context.Context, cfg config.S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Uploader{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: cfg.PublicURL,
	}, nil
}

// UploadImage stores body under a fresh key derived from filename's
// extension and returns the object's URL.
func (u *S3Uploader) UploadImage(ctx context.Context, filename string, body io.Reader) (string, error) {
	key, contentType, err := objectKey(filename)
	if err != nil {
		return "", err
	}
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	return objectURL(u.publicURL, u.bucket, u.region, key), nil
}

func objectKey(filename string) (key, contentType string, err error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	return "meals/" + uuid.NewString() + ext, contentType, nil
}

// objectURL prefers the configured public base (a CDN or custom domain)
// over the bucket's virtual-hosted URL.
func objectURL(publicURL, bucket, region, key string) string {
	if publicURL != "" {
		return publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
