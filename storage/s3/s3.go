// Package s3 stores objects in Amazon S3 or an S3-compatible service.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(ctx context.Context, cfg storage.Config) (storage.Storage, error) {
		return NewStorage(ctx, cfg)
	})
}

// API is the subset of the S3 client used here.
type API interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, opts ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *awss3.GetObjectInput, opts ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, opts ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, in *awss3.HeadObjectInput, opts ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *awss3.ListObjectsV2Input, opts ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
}

// Storage implements storage.Storage on S3.
type Storage struct {
	client   API
	bucket   string
	endpoint string
}

// NewStorage loads AWS configuration (static keys when given, the default
// credential chain otherwise) and creates the client.
func NewStorage(ctx context.Context, cfg storage.Config) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Storage over an existing client.
func NewWithClient(client API, cfg storage.Config) *Storage {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
	}
	return &Storage{client: client, bucket: cfg.Bucket, endpoint: endpoint}
}

// Upload writes reader to the object at key.
func (s *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	in := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   reader,
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return translate("upload", key, err)
	}
	return nil
}

// Download returns a reader for the object at key.
func (s *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translate("download", key, err)
	}
	return out.Body, nil
}

// Delete removes an object. S3 reports success for missing keys.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return translate("delete", key, err)
	}
	return nil
}

// Exists checks whether an object exists.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, translate("head", key, err)
	}
	return true, nil
}

// URL returns the path-style URL of the object.
func (s *Storage) URL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}

// List returns metadata for all objects whose key starts with prefix.
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}

	files := []storage.FileInfo{}
	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, translate("list", prefix, err)
		}
		for _, obj := range out.Contents {
			fi := storage.FileInfo{
				Path:        aws.ToString(obj.Key),
				Size:        aws.ToInt64(obj.Size),
				ContentType: mime.TypeByExtension(path.Ext(aws.ToString(obj.Key))),
			}
			if obj.LastModified != nil {
				fi.LastModified = *obj.LastModified
			}
			files = append(files, fi)
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey")
}

// translate maps S3 failures onto AppErrors: missing keys become NOT_FOUND,
// throttling and 5xx stay retryable, everything else is a permanent
// external service error.
func translate(op, key string, err error) error {
	if isNotFound(err) {
		return apperrors.NotFound("object", key).WithCause(err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "Throttling", "ThrottlingException", "RequestLimitExceeded":
			return apperrors.RateLimited().WithDetail("service", "s3").WithCause(err)
		}
	}
	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() >= http.StatusInternalServerError {
		return apperrors.ExternalServiceError("s3", fmt.Errorf("%s %s: %w", op, key, err))
	}
	appErr := apperrors.ExternalServiceError("s3", fmt.Errorf("%s %s: %w", op, key, err))
	appErr.Retryable = false
	return appErr
}

var _ storage.Storage = (*Storage)(nil)
