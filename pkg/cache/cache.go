// Package cache stores parsed graph results keyed by source filename.
//
// The server looks graphs up by filename on every request; laying out and
// parsing a large graph is far slower than reading it back. A [Cache]
// holds the encoded JSON of a parsed graph under a key built by a [Keyer].
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// # Keys
//
// Result keys combine the filename with every option that changes the
// output, so graphs laid out by different engines never collide:
//
//	key := cache.NewDefaultKeyer().ResultKey("unix.gv", cache.ResultKeyOpts{Engine: "dot"})
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long parsed results stay cached when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is reported with
	// hit == false and a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend connection.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key for the parsed result of filename.
	ResultKey(filename string, opts ResultKeyOpts) string
}

// ResultKeyOpts holds the options that change a parsed result.
type ResultKeyOpts struct {
	Engine    string `json:"engine"`
	Annotated bool   `json:"annotated"`
	Strict    bool   `json:"strict"`
}

// DefaultKeyer produces keys of the form "result:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey hashes the filename together with opts.
func (DefaultKeyer) ResultKey(filename string, opts ResultKeyOpts) string {
	return hashKey("result", filename, opts)
}
