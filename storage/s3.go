package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 stores assets in a bucket, one key prefix and public base URL per
// content area. Credentials come from the default AWS credential chain.
type S3 struct {
	client   *s3.Client
	bucket   string
	prefixes map[Area]string
	baseURLs map[Area]string
}

// S3Config carries the per-area key prefixes (e.g. "images/", "thumbs/") and
// the public URLs the bucket contents are served from.
type S3Config struct {
	Bucket       string
	ImagePrefix  string
	ThumbPrefix  string
	ImageBaseURL string
	ThumbBaseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket cannot be empty")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefixes: map[Area]string{
			AreaOriginal: normalizePrefix(cfg.ImagePrefix),
			AreaThumb:    normalizePrefix(cfg.ThumbPrefix),
		},
		baseURLs: map[Area]string{
			AreaOriginal: strings.TrimSuffix(cfg.ImageBaseURL, "/"),
			AreaThumb:    strings.TrimSuffix(cfg.ThumbBaseURL, "/"),
		},
	}, nil
}

// normalizePrefix makes sure a non-empty key prefix ends with a slash.
func normalizePrefix(p string) string {
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (s *S3) Put(ctx context.Context, area Area, key string, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefixes[area] + key),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", s.baseURLs[area], key), nil
}

func (s *S3) Delete(ctx context.Context, area Area, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefixes[area] + key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}
