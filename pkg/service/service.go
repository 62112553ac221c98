// Package service loads laid-out graphs for the CLI and the HTTP handler.
//
// Loading a graph by filename runs these stages:
//
//  1. Validate: the filename must be a safe relative path to a .dot/.gv file
//  2. Cache lookup: a hit returns the stored JSON without touching the source
//  3. Read: the source is read from the configured graph directory
//  4. Layout: an [layout.Annotator] adds positions to the source
//  5. Parse: [dot.Options.Parse] turns annotated DOT into a [dot.Graph]
//  6. Encode and store: the graph is encoded as JSON and cached
//
// Parse and layout failures are returned to the caller and never cached.
//
// # Usage
//
//	runner := service.NewRunner(c, nil, layout.Graphviz{}, os.DirFS(dir), logger)
//	res, err := runner.Load(ctx, "unix.gv")
//	if err != nil {
//	    return err
//	}
//	w.Write(res.JSON)
package service

import (
	"time"

	"github.com/matzehuels/dotlayout/pkg/dot"
)

// Result is a loaded graph.
type Result struct {
	// Graph is the parsed graph.
	Graph *dot.Graph

	// JSON is the encoded graph, byte-identical between cache hits and misses.
	JSON []byte

	// Cached reports whether the result came from the cache.
	Cached bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains load statistics. Timings are zero for cached results.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	SourceBytes int
	LayoutTime  time.Duration
	ParseTime   time.Duration
}
