// Package s3store keeps camera captures in an S3 bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("s3 bucket not configured")

// putter is the part of *s3.Client the store needs.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	client    putter
	bucket    string
	region    string
	publicURL string // overrides the virtual-hosted bucket URL, e.g. a CDN
}

// New loads the default AWS credential chain for region.
func New(ctx context.Context, bucket, region, publicURL string) (*Store, error) {
	if bucket == "" {
		return nil, ErrNotConfigured
	}
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, region, publicURL), nil
}

func NewWithClient(client putter, bucket, region, publicURL string) *Store {
	return &Store{client: client, bucket: bucket, region: region, publicURL: strings.TrimRight(publicURL, "/")}
}

// UploadImage stores a JPEG capture at folder/publicID.jpg. S3 has no
// transformations, so the thumbnail URL is the image itself.
func (s *Store) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	key := strings.Trim(folder, "/") + "/" + publicID + ".jpg"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", "", fmt.Errorf("put %s: %w", key, err)
	}
	url = s.ObjectURL(key)
	return url, url, nil
}

func (s *Store) ObjectURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
