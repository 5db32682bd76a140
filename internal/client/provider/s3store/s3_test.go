package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
)

type fakePutter struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func responseError(code int) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: code}},
			Err:      errors.New("api error"),
		},
	}
}

func TestUpload(t *testing.T) {
	f := &fakePutter{}
	s := &Store{api: f}

	err := s.Upload(context.Background(), "avatars", "/avatars/u1-1.png", models.Avatar{
		ContentType: "image/png",
		Size:        3,
		Body:        bytes.NewReader([]byte("png")),
	})
	require.NoError(t, err)

	require.NotNil(t, f.in)
	assert.Equal(t, "avatars", aws.ToString(f.in.Bucket))
	assert.Equal(t, "avatars/u1-1.png", aws.ToString(f.in.Key))
	assert.Equal(t, "image/png", aws.ToString(f.in.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(f.in.ContentLength))
	body, _ := io.ReadAll(f.in.Body)
	assert.Equal(t, "png", string(body))
}

func TestUpload_NilBody(t *testing.T) {
	s := &Store{api: &fakePutter{}}
	require.Error(t, s.Upload(context.Background(), "b", "k", models.Avatar{}))
}

func TestUpload_MapsErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"forbidden", responseError(http.StatusForbidden), provider.ErrUnauthorized},
		{"no bucket", responseError(http.StatusNotFound), provider.ErrNotFound},
		{"server", responseError(http.StatusInternalServerError), provider.ErrUnavailable},
		{"network", errors.New("dial tcp: refused"), provider.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Store{api: &fakePutter{err: tc.err}}
			err := s.Upload(context.Background(), "b", "k", models.Avatar{Body: bytes.NewReader(nil)})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"public base", Config{PublicURL: "https://cdn.example.com/media/", Endpoint: "http://minio:9000"},
			"https://cdn.example.com/media/avatars/avatars/u1-1.png"},
		{"endpoint", Config{Endpoint: "http://localhost:9000"},
			"http://localhost:9000/avatars/avatars/u1-1.png"},
		{"aws", Config{Region: "eu-north-1"},
			"https://avatars.s3.eu-north-1.amazonaws.com/avatars/u1-1.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Store{cfg: tc.cfg}
			assert.Equal(t, tc.want, s.PublicURL("avatars", "avatars/u1-1.png"))
		})
	}
}

func TestNew_ConfiguresClient(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	var gotOpts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		assert.Equal(t, "us-east-1", cfg.Region)
		creds, err := cfg.Credentials.Retrieve(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "minio", creds.AccessKeyID)
		return s3.NewFromConfig(cfg, optFns...)
	}

	s, err := New(context.Background(), Config{
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "http://localhost:9000", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)
}

func TestNew_LoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := New(context.Background(), Config{Region: "x"})
	require.ErrorContains(t, err, "load aws config")
}
