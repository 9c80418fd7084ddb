package watermarkstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

// maxWatermarkSize caps how much of a remote record is read.
const maxWatermarkSize = 64 << 10

// S3API is the subset of *s3.Client used by S3.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the client built by NewS3FromConfig.
type S3Options struct {
	Region string
	// Endpoint overrides the service endpoint for S3-compatible stores such
	// as MinIO.
	Endpoint  string
	PathStyle bool
}

// S3 stores each record as the object key in bucket container.
type S3 struct {
	client S3API
}

// NewS3 wraps an existing client.
func NewS3(client S3API) *S3 {
	return &S3{client: client}
}

// NewS3FromConfig loads the default AWS credential chain and builds an
// instrumented client.
func NewS3FromConfig(ctx context.Context, opts S3Options) (*S3, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})
	return NewS3(client), nil
}

func (s *S3) Exists(ctx context.Context, container, key string) (bool, error) {
	if err := validateRef(container, key); err != nil {
		return false, err
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if isS3NotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("head s3://%s/%s: %w", container, key, err)
	}
	return true, nil
}

func (s *S3) Read(ctx context.Context, container, key string) (string, error) {
	if err := validateRef(container, key); err != nil {
		return "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if isS3NotFound(err) {
		return "", notFound(container, key)
	}
	if err != nil {
		return "", fmt.Errorf("get s3://%s/%s: %w", container, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxWatermarkSize))
	if err != nil {
		return "", fmt.Errorf("reading s3://%s/%s: %w", container, key, err)
	}
	return string(data), nil
}

func (s *S3) Write(ctx context.Context, container, key, contents string) error {
	if err := validateRef(container, key); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(container),
		Key:         aws.String(key),
		Body:        strings.NewReader(contents),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", container, key, err)
	}
	return nil
}

// isS3NotFound reports a missing object. HeadObject has no body, so it
// surfaces as a generic NotFound API error rather than NoSuchKey.
func isS3NotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
