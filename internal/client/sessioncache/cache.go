// Package sessioncache persists the current session in the local database,
// sealed with a key derived from the configured cache secret.
package sessioncache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/venuehub/internal/client/models"
	"github.com/dmitrijs2005/venuehub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/venuehub/internal/common"
	"github.com/dmitrijs2005/venuehub/internal/cryptox"
	"github.com/dmitrijs2005/venuehub/internal/dbx"
)

const (
	keySalt       = "session_salt"
	keyCiphertext = "session_ciphertext"
	keyNonce      = "session_nonce"

	saltSize = 16
)

// ErrCorrupt means a stored session exists but cannot be opened, usually
// because the cache secret changed.
var ErrCorrupt = errors.New("cached session is unreadable")

// Cache loads, saves and clears the persisted session.
type Cache struct {
	db     *sql.DB
	secret []byte

	mu  sync.Mutex
	key []byte
}

func New(db *sql.DB, secret []byte) *Cache {
	return &Cache{db: db, secret: secret}
}

// Load returns the persisted session, or (nil, nil) when there is none.
func (c *Cache) Load(ctx context.Context) (*models.Session, error) {
	repo := metadata.NewSQLiteRepository(c.db)

	ciphertext, err := repo.Get(ctx, keyCiphertext)
	if err != nil {
		return nil, err
	}
	nonce, err := repo.Get(ctx, keyNonce)
	if err != nil {
		return nil, err
	}
	if ciphertext == nil || nonce == nil {
		return nil, nil
	}

	key, err := c.deriveKey(ctx, repo)
	if err != nil {
		return nil, err
	}

	var s models.Session
	if err := cryptox.Open(ciphertext, nonce, key, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &s, nil
}

// Save replaces the persisted session.
func (c *Cache) Save(ctx context.Context, s *models.Session) error {
	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		key, err := c.deriveKey(ctx, repo)
		if err != nil {
			return err
		}

		ciphertext, nonce, err := cryptox.Seal(s, key)
		if err != nil {
			return fmt.Errorf("seal session: %w", err)
		}

		return repo.SetMany(ctx, map[string][]byte{
			keyCiphertext: ciphertext,
			keyNonce:      nonce,
		})
	})
	if err != nil {
		// a rolled back transaction may have discarded a freshly created salt
		c.mu.Lock()
		c.key = nil
		c.mu.Unlock()
		return err
	}
	return nil
}

// Clear removes the persisted session. The salt is kept.
func (c *Cache) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(c.db).Delete(ctx, keyCiphertext, keyNonce)
}

// deriveKey returns the sealing key, creating and storing the salt on first
// use. The derived key is memoized; Argon2 is deliberately slow.
func (c *Cache) deriveKey(ctx context.Context, repo metadata.Repository) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key != nil {
		return c.key, nil
	}

	salt, err := repo.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(saltSize)
		if err := repo.Set(ctx, keySalt, salt); err != nil {
			return nil, err
		}
	}

	c.key = cryptox.DeriveKey(c.secret, salt)
	return c.key, nil
}
