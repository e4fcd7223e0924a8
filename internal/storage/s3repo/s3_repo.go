package s3repo

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ailetic/config"
)

const traceName = "S3-Repo"

type S3Repository struct {
	sess *s3.Client
}

// NewS3Repository builds a client from cfg. A custom endpoint (minio and
// friends) switches to path-style addressing; otherwise the default AWS
// credential chain applies unless static keys are given.
func NewS3Repository(ctx context.Context, cfg config.S3) (*S3Repository, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...any) (aws.Endpoint, error) {
			return aws.Endpoint{
				PartitionID:       "aws",
				SigningRegion:     cfg.Region,
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
			}, nil
		})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.UsePathStyle = cfg.Endpoint != ""
	})
	return &S3Repository{s3Client}, nil
}

// EnsureBucket creates bucket when it does not exist yet.
func (s3Repo *S3Repository) EnsureBucket(ctx context.Context, bucket string) error {
	ctx, span := otel.Tracer(traceName).Start(ctx, "EnsureBucket")
	defer span.End()

	span.SetAttributes(attribute.String("bucket", bucket))

	_, err := s3Repo.sess.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	if !IsNotFound(err) {
		return err
	}

	span.AddEvent("creating bucket")
	_, err = s3Repo.sess.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	return err
}

func (s3Repo *S3Repository) UploadObject(ctx context.Context, bucket string, key string, contentType string, r io.Reader) error {
	ctx, span := otel.Tracer(traceName).Start(ctx, "UploadObject")
	defer span.End()

	span.SetAttributes(attribute.String("bucket", bucket))
	span.SetAttributes(attribute.String("key", key))

	uploader := manager.NewUploader(s3Repo.sess)

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return err
	}

	return nil
}

// IsNotFound reports whether err is an S3 404.
func IsNotFound(err error) bool {
	var responseError *awshttp.ResponseError
	return errors.As(err, &responseError) && responseError.HTTPStatusCode() == http.StatusNotFound
}
