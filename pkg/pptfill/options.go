// Package pptfill fills PowerPoint templates with runtime data: it rewrites
// {{key}} text placeholders, overwrites table cells from row/column matrices
// and swaps image placeholders for real images while keeping their position
// and aspect ratio. Slides are addressed by the text of their title shape.
package pptfill

import (
	"log/slog"
	"time"
)

// DefaultProbeTTL is how long probed image dimensions stay cached. Batch runs
// tend to reuse the same logos and plots across slides, so repeated probes of
// one path are served from memory.
const DefaultProbeTTL = 5 * time.Minute

// Options configures template application behavior.
type Options struct {
	// Logger receives per-shape debug output and per-skip warnings.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
	// ProbeTTL overrides how long probed image dimensions are cached.
	// If zero, DefaultProbeTTL is used.
	ProbeTTL time.Duration
}

// DefaultOptions returns default application options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) probeTTL() time.Duration {
	if o.ProbeTTL > 0 {
		return o.ProbeTTL
	}
	return DefaultProbeTTL
}
