// Package s3store stores avatars in an S3-compatible bucket (AWS, MinIO).
package s3store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the base objects are served from. When empty, URLs are
	// derived from Endpoint or the AWS virtual-hosted form.
	PublicURL string
}

// Store implements provider.Storage.
type Store struct {
	api putObjectAPI
	cfg Config
}

var _ provider.Storage = (*Store)(nil)

func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{api: client, cfg: cfg}, nil
}

func (s *Store) Upload(ctx context.Context, bucket, path string, avatar models.Avatar) error {
	if avatar.Body == nil {
		return errors.New("upload: empty body")
	}

	in := &s3.PutObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(strings.TrimLeft(path, "/")),
		Body:         avatar.Body,
		CacheControl: aws.String("max-age=3600"),
	}
	if avatar.ContentType != "" {
		in.ContentType = aws.String(avatar.ContentType)
	}
	if avatar.Size > 0 {
		in.ContentLength = aws.Int64(avatar.Size)
	}

	if _, err := s.api.PutObject(ctx, in); err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, mapError(err))
	}
	return nil
}

func (s *Store) PublicURL(bucket, path string) string {
	key := strings.Split(strings.TrimLeft(path, "/"), "/")

	base := s.cfg.PublicURL
	if base == "" && s.cfg.Endpoint != "" {
		base = s.cfg.Endpoint
	}
	if base != "" {
		u, err := url.Parse(strings.TrimRight(base, "/"))
		if err == nil {
			return u.JoinPath(append([]string{bucket}, key...)...).String()
		}
	}

	u := &url.URL{Scheme: "https", Host: fmt.Sprintf("%s.s3.%s.amazonaws.com", bucket, s.cfg.Region)}
	return u.JoinPath(key...).String()
}

// mapError attaches the provider sentinel matching the response status.
func mapError(err error) error {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		if sentinel := provider.FromStatus(re.HTTPStatusCode()); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
	}
	return fmt.Errorf("%w: %w", provider.ErrUnavailable, err)
}
