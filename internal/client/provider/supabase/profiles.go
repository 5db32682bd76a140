package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
)

const (
	profilesTable = "profiles"

	// singleObject makes PostgREST return one object instead of an array,
	// and 406 when no row matches.
	singleObject = "application/vnd.pgrst.object+json"
)

func (c *Client) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("%w: invalid user id %q", provider.ErrRejected, userID)
	}

	var p models.Profile
	err := c.do(ctx, request{
		service: serviceRest,
		method:  http.MethodGet,
		path:    []string{"rest", "v1", profilesTable},
		query: url.Values{
			"select": {strings.Join(models.ProfileColumns, ",")},
			"id":     {"eq." + userID},
		},
		header: http.Header{"Accept": {singleObject}},
	}, &p)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: invalid user id %q", provider.ErrRejected, userID)
	}
	if update.IsEmpty() {
		return fmt.Errorf("%w: empty profile update", provider.ErrRejected)
	}

	body, err := jsonBody(update)
	if err != nil {
		return err
	}

	err = c.do(ctx, request{
		service: serviceRest,
		method:  http.MethodPatch,
		path:    []string{"rest", "v1", profilesTable},
		query:   url.Values{"id": {"eq." + userID}},
		header: http.Header{
			"Content-Type": {"application/json"},
			"Prefer":       {"return=minimal"},
		},
		body: body,
	}, nil)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
