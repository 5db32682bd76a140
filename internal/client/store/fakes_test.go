package store

import (
	"context"
	"io"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/provider"
)

// ---- fake identity ----

type fakeIdentity struct {
	session *models.Session

	getErr     error
	signInErr  error
	signOutErr error

	getCalls     int
	signInCalls  int
	signOutCalls int

	lastEmail    string
	lastPassword string

	// onGetSession runs inside GetSession, before it returns
	onGetSession func()
}

func (f *fakeIdentity) GetSession(ctx context.Context) (*models.Session, error) {
	f.getCalls++
	if f.onGetSession != nil {
		f.onGetSession()
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.session, nil
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email string, password []byte) (*models.Session, error) {
	f.signInCalls++
	f.lastEmail = email
	f.lastPassword = string(password)
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.signOutCalls++
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.session = nil
	return nil
}

// ---- fake profiles ----

type fakeProfiles struct {
	rows map[string]models.Profile

	getErr    error
	updateErr error

	getCalls    int
	updateCalls int
	lastUpdate  models.ProfileUpdate

	// onGetProfile runs inside GetProfile, before it returns
	onGetProfile func()
}

func newFakeProfiles(rows ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{rows: make(map[string]models.Profile)}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	f.getCalls++
	if f.onGetProfile != nil {
		f.onGetProfile()
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[userID]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) error {
	f.updateCalls++
	f.lastUpdate = update
	if f.updateErr != nil {
		return f.updateErr
	}
	f.rows[userID] = f.rows[userID].Apply(update)
	return nil
}

// ---- fake storage ----

type fakeStorage struct {
	objects map[string][]byte

	uploadErr error

	uploadCalls     int
	lastBucket      string
	lastPath        string
	lastContentType string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, path string, avatar models.Avatar) error {
	f.uploadCalls++
	f.lastBucket = bucket
	f.lastPath = path
	f.lastContentType = avatar.ContentType
	if f.uploadErr != nil {
		return f.uploadErr
	}
	b, err := io.ReadAll(avatar.Body)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+path] = b
	return nil
}

func (f *fakeStorage) PublicURL(bucket, path string) string {
	return "https://cdn.test/storage/v1/object/public/" + bucket + "/" + path
}
