package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/facette/natsort"

	"github.com/pagetools/yamlpage/pkg/logging"
	"github.com/pagetools/yamlpage/ypapi"
)

// S3Config holds the parameters for an S3 backend.
// Endpoint is optional and exists for S3-compatible services.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string
}

// S3 stores pages as objects in a bucket.  Object keys are derived the same
// way MultiFolder derives paths, nested under an optional prefix, so a bucket
// browser shows the same hierarchy a MultiFolder root directory would.
type S3 struct {
	client    *s3.Client
	cfg       S3Config
	extension string
}

var _ Backend = (*S3)(nil)

// NewS3 constructs an S3 backend and verifies the bucket is reachable.
//
// Errors:
//
//    - yamlpage-error-initialization -- when aws config loading fails or the bucket is not accessible
func NewS3(ctx context.Context, cfg S3Config, extension string) (*S3, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.Endpoint,
					HostnameImmutable: true,
					SigningRegion:     cfg.Region,
				}, nil
			})))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, ypapi.ErrorInitialization("could not load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg)

	// make sure we can access the specified bucket
	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, ypapi.ErrorInitialization("could not access bucket "+cfg.Bucket, err)
	}

	return &S3{
		client:    client,
		cfg:       cfg,
		extension: NormalizeExtension(extension),
	}, nil
}

// PathFor derives the object key for a page key: multi-folder style
// normalization under the configured prefix, extension appended.
func (b *S3) PathFor(key string) string {
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		// no joining separator for the empty key; the prefix plays the
		// role the root directory plays for the filesystem backends
		return b.cfg.Prefix + b.extension
	}
	return path.Join(b.cfg.Prefix, cleaned) + b.extension
}

func (b *S3) Has(ctx context.Context, key string) bool {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(b.PathFor(key)),
	})
	return err == nil
}

func (b *S3) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey := b.PathFor(key)
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		// Absence covers missing objects and access failures alike,
		// matching the filesystem backends' read contract.
		if !isNotFound(err) {
			logging.Ctx(ctx).Debug("backend", "treating object %q as absent: %s", objectKey, err)
		}
		return nil, nil
	}
	defer out.Body.Close()
	body, err := io.ReadAll(out.Body)
	if err != nil {
		logging.Ctx(ctx).Debug("backend", "treating object %q as absent: %s", objectKey, err)
		return nil, nil
	}
	if !validUTF8(body) {
		logging.Ctx(ctx).Debug("backend", "treating object %q as absent: not valid utf-8", objectKey)
		return nil, nil
	}
	return body, nil
}

func (b *S3) Put(ctx context.Context, key string, body []byte) error {
	objectKey := b.PathFor(key)
	uploader := manager.NewUploader(b.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return ypapi.ErrorIo("could not upload page object", objectKey, err)
	}
	return nil
}

// List pages through the bucket contents under the prefix and inverts the
// object key mapping.
func (b *S3) List(ctx context.Context) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.cfg.Bucket),
	}
	if b.cfg.Prefix != "" {
		input.Prefix = aws.String(b.cfg.Prefix + "/")
	}
	paginator := s3.NewListObjectsV2Paginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, ypapi.ErrorIo("could not list bucket objects", b.cfg.Bucket, err)
		}
		for _, obj := range page.Contents {
			name := aws.ToString(obj.Key)
			if b.extension != "" && !strings.HasSuffix(name, b.extension) {
				continue
			}
			name = strings.TrimSuffix(name, b.extension)
			if b.cfg.Prefix != "" {
				name = strings.TrimPrefix(name, b.cfg.Prefix+"/")
			}
			keys = append(keys, name)
		}
	}
	natsort.Sort(keys)
	return keys, nil
}

func isNotFound(err error) bool {
	var responseError *awshttp.ResponseError
	if errors.As(err, &responseError) {
		return responseError.ResponseError.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}
