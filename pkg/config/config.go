// Package config loads dotlayout settings from a TOML file.
//
// Every field has a default, so a missing file is not an error. Command-line
// flags are applied on top of the loaded values by the CLI.
//
//	listen    = ":8080"
//	graph_dir = "graphviz-examples/Directed"
//	engine    = "dot"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "cache:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dotlayout/pkg/cache"
	errs "github.com/matzehuels/dotlayout/pkg/errors"
	"github.com/matzehuels/dotlayout/pkg/layout"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "dotlayout.toml"

// Defaults.
const (
	DefaultListen    = ":8080"
	DefaultGraphDir  = "graphviz-examples/Directed"
	DefaultDotBinary = "dot"
	DefaultRedisAddr = "localhost:6379"
	DefaultMongoURI  = "mongodb://localhost:27017"
	DefaultMongoDB   = "dotlayout"
)

// Annotator names.
const (
	AnnotatorGraphviz = "graphviz"
	AnnotatorCommand  = "command"
)

// Config is the top-level configuration.
type Config struct {
	Listen    string      `toml:"listen"`
	GraphDir  string      `toml:"graph_dir"`
	Engine    string      `toml:"engine"`
	Annotator string      `toml:"annotator"`
	DotBinary string      `toml:"dot_binary"`
	Strict    bool        `toml:"strict"`
	Cache     CacheConfig `toml:"cache"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	Prefix    string   `toml:"prefix"`
	RedisAddr string   `toml:"redis_addr"`
	MongoURI  string   `toml:"mongo_uri"`
	MongoDB   string   `toml:"mongo_db"`
}

// Duration is a time.Duration written as a string such as "24h" or "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads path and applies defaults. A missing file yields the
// defaults; unknown keys are rejected so typos don't go unnoticed.
func Load(path string) (*Config, error) {
	c := &Config{}
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDefaults fills zero-valued fields. It is idempotent.
func (c *Config) SetDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.GraphDir == "" {
		c.GraphDir = DefaultGraphDir
	}
	if c.Engine == "" {
		c.Engine = layout.DefaultEngine
	}
	if c.Annotator == "" {
		c.Annotator = AnnotatorGraphviz
	}
	if c.DotBinary == "" {
		c.DotBinary = DefaultDotBinary
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendFile
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = cache.DefaultTTL
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.MongoURI == "" {
		c.Cache.MongoURI = DefaultMongoURI
	}
	if c.Cache.MongoDB == "" {
		c.Cache.MongoDB = DefaultMongoDB
	}
}

// Validate rejects unknown engines, annotators and cache backends.
func (c *Config) Validate() error {
	if err := layout.ValidateEngine(c.Engine); err != nil {
		return err
	}
	if c.Annotator != AnnotatorGraphviz && c.Annotator != AnnotatorCommand {
		return errs.New(errs.ErrCodeInvalidInput, "invalid annotator %q (must be one of: %s, %s)",
			c.Annotator, AnnotatorGraphviz, AnnotatorCommand)
	}
	if !slices.Contains(cache.Backends, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid cache backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(cache.Backends, ", "))
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}

// NewAnnotator builds the layout annotator the config selects.
func (c *Config) NewAnnotator() layout.Annotator {
	if c.Annotator == AnnotatorCommand {
		return layout.Command{Binary: c.DotBinary, Engine: c.Engine}
	}
	return layout.Graphviz{Engine: c.Engine}
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis:   cache.RedisConfig{Addr: c.Cache.RedisAddr, Prefix: c.Cache.Prefix},
		Mongo:   cache.MongoConfig{URI: c.Cache.MongoURI, Database: c.Cache.MongoDB},
	}
}

// String renders the config as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
