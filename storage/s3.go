package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// S3API is the part of *s3.Client the bucket uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type S3Options struct {
	Bucket          string
	Endpoint        string // empty for AWS itself
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the prefix public object URLs start with, before
	// the bucket name.
	PublicBaseURL string
}

// S3Bucket stores objects in an S3 compatible service. Supabase Storage is
// reached through its S3 endpoint with path-style addressing.
type S3Bucket struct {
	client     S3API
	bucket     string
	publicBase string
	logger     zerolog.Logger
}

func NewS3Bucket(ctx context.Context, opts S3Options) (*S3Bucket, error) {
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.PublicBaseURL == "" {
		return nil, fmt.Errorf("public base url is required for bucket %s", opts.Bucket)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3BucketWithClient(client, opts.Bucket, opts.PublicBaseURL), nil
}

func NewS3BucketWithClient(client S3API, bucket, publicBase string) *S3Bucket {
	return &S3Bucket{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		logger:     log.With().Str("component", "s3Bucket").Str("bucket", bucket).Logger(),
	}
}

func (b *S3Bucket) Name() string {
	return b.bucket
}

func (b *S3Bucket) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(b.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	b.logger.Debug().Str("key", key).Msg("Stored object")
	return nil
}

func (b *S3Bucket) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
	}

	out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("delete %d objects: %w", len(keys), err)
	}
	if len(out.Errors) > 0 {
		failed := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			failed = append(failed, fmt.Sprintf("%s: %s", aws.ToString(e.Key), aws.ToString(e.Message)))
		}
		return fmt.Errorf("delete objects: %s", strings.Join(failed, "; "))
	}
	return nil
}

// PublicURL returns <publicBase>/<bucket>/<key>.
func (b *S3Bucket) PublicURL(key string) string {
	return b.publicBase + "/" + b.bucket + "/" + key
}

// SupabasePublicBase is the public object prefix of a Supabase project.
func SupabasePublicBase(supabaseURL string) string {
	return strings.TrimRight(supabaseURL, "/") + "/storage/v1/object/public"
}
