// Package cache persists computed feature vectors keyed by
// (entity, as-of timestamp, feature-schema version), so repeated runs
// over overlapping date ranges do not recompute unchanged features.
//
// The cache is an explicit, passed-in collaborator, never a global:
// invalidation on a schema-version change is a single prefix drop.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/pkg/logger"
	"github.com/okian/statline/pkg/metrics"
)

const keyPrefix = "fv"

// Cache stores and retrieves computed feature vectors.
//
// The key extends (entity, as-of, version) with the opponent id:
// opponent-adjusted features condition a vector on the matchup, so two
// vectors for the same entity and date differ when the opponent does.
type Cache interface {
	// Get returns the cached vector and whether it was present.
	Get(ctx context.Context, entityID, opponentID string, asOf time.Time, version string) (model.FeatureVector, bool, error)

	// Put stores a computed vector.
	Put(ctx context.Context, fv model.FeatureVector, opponentID string) error

	// Invalidate drops every entry computed under a feature-schema
	// version. Must be called when a version's definition changes.
	Invalidate(ctx context.Context, version string) error

	// Close releases the underlying store.
	Close() error
}

// BadgerCache implements Cache on BadgerDB.
type BadgerCache struct {
	dir      string
	inMemory bool
	db       *badger.DB
	logger   logger.Logger
}

// New opens a cache with configuration options.
func New(ctx context.Context, opts ...Option) (*BadgerCache, error) {
	c := &BadgerCache{
		dir: "cache",
	}
	for _, opt := range opts {
		opt(c)
	}

	var badgerOpts badger.Options
	if c.inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(c.dir)
	}
	badgerOpts.Logger = nil

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open feature cache: %w", err)
	}
	c.db = db
	return c, nil
}

// key layout: fv|<version>|<entity>|<opponent>|<asOf unix nanos>.
func key(version, entityID, opponentID string, asOf time.Time) []byte {
	return []byte(keyPrefix + "|" + version + "|" + entityID + "|" + opponentID + "|" + strconv.FormatInt(asOf.UnixNano(), 10))
}

func versionPrefix(version string) []byte {
	return []byte(keyPrefix + "|" + version + "|")
}

// Get returns the cached vector and whether it was present.
func (c *BadgerCache) Get(ctx context.Context, entityID, opponentID string, asOf time.Time, version string) (model.FeatureVector, bool, error) {
	var fv model.FeatureVector
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(version, entityID, opponentID, asOf))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &fv)
		})
	})
	if err == badger.ErrKeyNotFound {
		metrics.RecordCacheMiss()
		return model.FeatureVector{}, false, nil
	}
	if err != nil {
		return model.FeatureVector{}, false, fmt.Errorf("cache get: %w", err)
	}
	metrics.RecordCacheHit()
	return fv, true, nil
}

// Put stores a computed vector.
func (c *BadgerCache) Put(ctx context.Context, fv model.FeatureVector, opponentID string) error {
	buf, err := json.Marshal(fv)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(fv.SchemaVersion, fv.EntityID, opponentID, fv.AsOf), buf)
	})
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Invalidate drops every entry computed under a feature-schema version.
func (c *BadgerCache) Invalidate(ctx context.Context, version string) error {
	if c.logger != nil {
		c.logger.Info(ctx, "invalidating feature cache",
			logger.String("feature_schema_version", version),
		)
	}
	if err := c.db.DropPrefix(versionPrefix(version)); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", version, err)
	}
	return nil
}

// Close releases the underlying store. Returns ErrClosed on a second
// call.
func (c *BadgerCache) Close() error {
	if c.db == nil {
		return ErrClosed
	}
	err := c.db.Close()
	c.db = nil
	return err
}
