package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/dotlayout/pkg/cache"
	"github.com/matzehuels/dotlayout/pkg/dot"
	errs "github.com/matzehuels/dotlayout/pkg/errors"
	"github.com/matzehuels/dotlayout/pkg/layout"
	"github.com/matzehuels/dotlayout/pkg/observability"
)

// stdinName labels sources that have no filename.
const stdinName = "-"

// Runner loads graphs with caching. It holds no per-request state, so one
// Runner may serve concurrent requests; concurrent loads of the same
// filename share a single layout and parse.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Annotator layout.Annotator
	Source    fs.FS
	Logger    *log.Logger

	// Engine names the layout engine for cache keys. It must match the
	// engine the Annotator runs.
	Engine string

	// Strict enables strict attribute-list parsing.
	Strict bool

	// TTL is how long results stay cached. Zero means cache.DefaultTTL.
	TTL time.Duration

	group singleflight.Group
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer, a nil annotator treats sources as already laid
// out and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, annotator layout.Annotator, source fs.FS, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if annotator == nil {
		annotator = layout.Passthrough{}
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Annotator: annotator,
		Source:    source,
		Logger:    logger,
		Engine:    layout.DefaultEngine,
	}
}

// Load returns the graph stored under filename in the source directory,
// from the cache when possible.
func (r *Runner) Load(ctx context.Context, filename string) (*Result, error) {
	if err := errs.ValidateGraphFilename(filename); err != nil {
		return nil, err
	}

	key := r.Keyer.ResultKey(filename, r.keyOpts())
	// The shared load must outlive any single caller; each caller still
	// stops waiting when its own context ends.
	ch := r.group.DoChan(key, func() (any, error) {
		return r.load(context.WithoutCancel(ctx), filename, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.Logger.Debug("shared in-flight load", "file", filename)
		}
		return res.Val.(*Result), nil
	}
}

func (r *Runner) load(ctx context.Context, filename, key string) (*Result, error) {
	if res, ok := r.lookup(ctx, filename, key); ok {
		return res, nil
	}

	if r.Source == nil {
		return nil, errs.New(errs.ErrCodeInternal, "no graph directory configured")
	}
	src, err := fs.ReadFile(r.Source, filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "graph %s not found", filename)
	}
	if errors.Is(err, fs.ErrInvalid) {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "invalid graph path %s", filename)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "read %s", filename)
	}

	res, err := r.parse(ctx, filename, src, true)
	if err != nil {
		return nil, err
	}
	r.store(ctx, filename, key, res.JSON)
	return res, nil
}

// ParseSource lays out (when annotate is set) and parses src without
// touching the cache.
func (r *Runner) ParseSource(ctx context.Context, src []byte, annotate bool) (*Result, error) {
	return r.parse(ctx, stdinName, src, annotate)
}

func (r *Runner) parse(ctx context.Context, name string, src []byte, annotate bool) (*Result, error) {
	res := &Result{Stats: Stats{SourceBytes: len(src)}}

	if annotate {
		observability.Parse().OnLayoutStart(ctx, name, r.Engine)
		start := time.Now()
		out, err := r.Annotator.Annotate(ctx, src)
		res.Stats.LayoutTime = time.Since(start)
		observability.Parse().OnLayoutComplete(ctx, name, r.Engine, res.Stats.LayoutTime, err)
		if err != nil {
			return nil, err
		}
		src = out
		r.Logger.Debug("laid out graph", "file", name, "engine", r.Engine, "duration", res.Stats.LayoutTime)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	observability.Parse().OnParseStart(ctx, name)
	start := time.Now()
	g, err := dot.Options{Strict: r.Strict}.Parse(string(src))
	res.Stats.ParseTime = time.Since(start)
	if err != nil {
		observability.Parse().OnParseComplete(ctx, name, 0, 0, res.Stats.ParseTime, err)
		return nil, err
	}
	res.Graph = g
	res.Stats.NodeCount = len(g.Nodes)
	res.Stats.EdgeCount = len(g.Edges)
	observability.Parse().OnParseComplete(ctx, name, res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.ParseTime, nil)

	res.JSON, err = json.Marshal(g)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode %s", name)
	}

	r.Logger.Info("parsed graph",
		"file", name,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"duration", res.Stats.ParseTime)
	return res, nil
}

// lookup returns the cached result for key. Backend errors and entries
// that no longer decode are treated as misses.
func (r *Runner) lookup(ctx context.Context, filename, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "file", filename, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, filename)
		return nil, false
	}

	var g dot.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		r.Logger.Warn("discarding undecodable cache entry", "file", filename, "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, filename)
		return nil, false
	}

	observability.Cache().OnCacheHit(ctx, filename)
	r.Logger.Debug("cache hit", "file", filename, "cached", true)
	return &Result{
		Graph:  &g,
		JSON:   data,
		Cached: true,
		Stats:  Stats{NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)},
	}, true
}

func (r *Runner) store(ctx context.Context, filename, key string, data []byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache store failed", "file", filename, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, filename, len(data))
}

// Invalidate drops the cached result for filename.
func (r *Runner) Invalidate(ctx context.Context, filename string) error {
	if err := errs.ValidateGraphFilename(filename); err != nil {
		return err
	}
	if err := r.Cache.Delete(ctx, r.Keyer.ResultKey(filename, r.keyOpts())); err != nil {
		return errs.Wrap(errs.ErrCodeCache, err, "invalidate %s", filename)
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) keyOpts() cache.ResultKeyOpts {
	_, annotated := r.Annotator.(layout.Passthrough)
	return cache.ResultKeyOpts{
		Engine:    r.Engine,
		Annotated: annotated,
		Strict:    r.Strict,
	}
}
