package probe

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.trai.ch/assetpack/internal/core/domain"
	"go.trai.ch/assetpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.RemoteProber = (*S3Store)(nil)
	_ ports.Publisher    = (*S3Store)(nil)
)

// ObjectClient is the subset of the S3 API used by S3Store.
type ObjectClient interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store probes and publishes bundles in an S3 bucket.
type S3Store struct {
	client   ObjectClient
	bucket   string
	prefix   string
	timeout  time.Duration
	logger   ports.Logger
	observer Observer
}

// NewS3Store creates an S3-backed store from the remote configuration.
func NewS3Store(ctx context.Context, remote domain.Remote, timeout time.Duration, logger ports.Logger, observer Observer) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(remote.Region))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load AWS config"), "bucket", remote.Bucket)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if remote.Endpoint != "" {
			o.BaseEndpoint = aws.String(remote.Endpoint)
			// Path style addressing for MinIO and LocalStack.
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, remote, timeout, logger, observer), nil
}

// NewS3StoreWithClient creates an S3Store over an existing client.
func NewS3StoreWithClient(client ObjectClient, remote domain.Remote, timeout time.Duration, logger ports.Logger, observer Observer) *S3Store {
	if timeout <= 0 {
		timeout = domain.DefaultProbeTimeout
	}
	return &S3Store{
		client:   client,
		bucket:   remote.Bucket,
		prefix:   remote.Prefix,
		timeout:  timeout,
		logger:   logger,
		observer: observer,
	}
}

// Key returns the object key for a bundle path.
func (s *S3Store) Key(p string) string {
	return s.prefix + strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Exists implements ports.RemoteProber with HeadObject. Any error means missing.
func (s *S3Store) Exists(ctx context.Context, p string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(p)),
	})
	found := err == nil
	if err != nil && s.logger != nil {
		s.logger.Debug(zerr.With(zerr.Wrap(domain.ErrProbeFailed, err.Error()), "key", s.Key(p)).Error())
	}
	if s.observer != nil {
		s.observer.ObserveProbe("s3", found)
	}
	return found
}

// Put implements ports.Publisher. Existing objects are left untouched.
func (s *S3Store) Put(ctx context.Context, p string, content []byte, contentType string) (bool, error) {
	key := s.Key(p)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return false, nil
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(content),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return false, zerr.With(zerr.With(zerr.Wrap(err, "s3 put failed"), "bucket", s.bucket), "key", key)
	}
	return true, nil
}
