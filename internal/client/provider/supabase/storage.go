package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
)

// Upload stores the avatar at bucket/path. Existing objects are not
// overwritten.
func (c *Client) Upload(ctx context.Context, bucket, path string, avatar models.Avatar) error {
	if avatar.Body == nil {
		return errors.New("upload: empty body")
	}

	contentType := avatar.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err := c.do(ctx, request{
		service: serviceStorage,
		method:  http.MethodPost,
		path:    objectPath("object", bucket, path),
		header: http.Header{
			"Content-Type":  {contentType},
			"Cache-Control": {"max-age=3600"},
			"X-Upsert":      {"false"},
		},
		body: avatar.Body,
		size: avatar.Size,
	}, nil)
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (c *Client) PublicURL(bucket, path string) string {
	return c.base.JoinPath(objectPath("object/public", bucket, path)...).String()
}

func objectPath(kind, bucket, path string) []string {
	parts := append([]string{"storage", "v1"}, strings.Split(kind, "/")...)
	parts = append(parts, bucket)
	return append(parts, strings.Split(strings.Trim(path, "/"), "/")...)
}
