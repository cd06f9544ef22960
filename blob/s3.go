package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store implements ObjectStore against a single S3 bucket.
type S3Store struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
}

var _ ObjectStore = (*S3Store)(nil)

// NewS3Store loads AWS configuration from the environment and binds to
// the given bucket.
func NewS3Store(ctx context.Context, bucketName, region string) (*S3Store, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("s3 bucket name cannot be empty")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: bucketName,
	}, nil
}

func (s *S3Store) IssueUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *S3Store) DescribeObject(ctx context.Context, key string) (*ObjectInfo, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to head %s: %w", key, err)
	}

	info := &ObjectInfo{Key: key}
	if head.ContentLength != nil {
		info.Size = *head.ContentLength
	}
	if head.ContentType != nil {
		info.ContentType = *head.ContentType
	}
	if head.LastModified != nil {
		info.LastModified = *head.LastModified
	}
	return info, nil
}

func (s *S3Store) PutObject(ctx context.Context, key string, data []byte, contentType string, publicRead bool) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}
	if publicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", s.bucketName, key, err)
	}
	return nil
}

// BucketName returns the bound bucket, useful when constructing
// notification filters or public URLs.
func (s *S3Store) BucketName() string {
	return s.bucketName
}
