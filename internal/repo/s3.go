package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pkordes/tagcal/internal/domain"
)

// S3Config holds the parameters for an S3 (or MinIO) backed repo.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; set for MinIO and other S3-compatible servers
	PathStyle bool
	// Static credentials. Empty values fall back to the default AWS chain.
	AccessKeyID     string
	SecretAccessKey string
	// HTTPClient overrides the transport. Tests use it to fake S3.
	HTTPClient *http.Client
}

// S3RecordRepo stores each record as the object <key>.json in one bucket.
type S3RecordRepo struct {
	client *s3.Client
	bucket string
}

// NewS3RecordRepo builds an S3 client from cfg.
func NewS3RecordRepo(ctx context.Context, cfg S3Config) (*S3RecordRepo, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("repo.NewS3RecordRepo: %w: bucket required", domain.ErrValidation)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("repo.NewS3RecordRepo: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3RecordRepo{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(key string) string { return key + fileSuffix }

// Get downloads the object for key.
func (r *S3RecordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("repo.S3RecordRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.S3RecordRepo.Get: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("repo.S3RecordRepo.Get: read body: %w", err)
	}
	return data, nil
}

// Put uploads data as the object for key.
func (r *S3RecordRepo) Put(ctx context.Context, key string, data []byte) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(objectKey(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("repo.S3RecordRepo.Put: %w", err)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
