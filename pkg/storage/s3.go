package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds connection settings for NewS3Client. Empty keys fall back to
// the default AWS credential chain; Endpoint targets S3 compatible services.
type S3Config struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	loaders := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loaders = append(loaders, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithPrefix stores every key below prefix.
func WithPrefix(prefix string) S3Option {
	return func(s *S3Store) {
		s.prefix = strings.Trim(prefix, "/")
	}
}

// S3Store keeps objects in a bucket.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

var _ Store = (*S3Store)(nil)

// NewS3Store wraps client for bucket.
func NewS3Store(client S3API, bucket string, options ...S3Option) (*S3Store, error) {
	if client == nil {
		return nil, errors.New("storage: s3 client is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	store := &S3Store{client: client, bucket: bucket}
	for _, opt := range options {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Put uploads data under key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	if err := ValidateKey(key); err != nil {
		return Object{}, err
	}
	objectKey := s.objectKey(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return Object{}, fmt.Errorf("storage: put s3://%s/%s: %w", s.bucket, objectKey, err)
	}
	return Object{
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
		Location:    "s3://" + s.bucket + "/" + objectKey,
	}, nil
}

// Open downloads key. The caller closes the returned body.
func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	if err := ValidateKey(key); err != nil {
		return nil, Object{}, err
	}
	objectKey := s.objectKey(key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, Object{}, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, Object{}, fmt.Errorf("storage: get s3://%s/%s: %w", s.bucket, objectKey, err)
	}
	return out.Body, Object{
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
		Location:    "s3://" + s.bucket + "/" + objectKey,
	}, nil
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}
