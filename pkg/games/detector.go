package games

import (
	"context"

	"go.uber.org/zap"

	"github.com/chitchat/desktop/pkg/integrations/process"
)

// Detector decides which game, if any, is currently running
type Detector struct {
	lister       process.Lister
	catalog      []CatalogEntry
	guessUnknown bool
	logger       *zap.Logger
}

// Option configures a Detector
type Option func(*Detector)

// WithUnknownGames enables the heuristic guess for games missing from the catalog
func WithUnknownGames(enabled bool) Option {
	return func(d *Detector) {
		d.guessUnknown = enabled
	}
}

// WithCatalog replaces the built-in catalog
func WithCatalog(entries []CatalogEntry) Option {
	return func(d *Detector) {
		d.catalog = entries
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

func NewDetector(lister process.Lister, opts ...Option) *Detector {
	d := &Detector{
		lister:  lister,
		catalog: Catalog(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect takes a fresh process snapshot and classifies it.
// Failures to list processes are reported as "no game detected".
func (d *Detector) Detect(ctx context.Context) Detection {
	running := process.Snapshot(ctx, d.lister)
	if len(running) == 0 {
		d.logger.Debug("empty process snapshot")
		return None()
	}

	if entry, ok := MatchKnown(running, d.catalog); ok {
		d.logger.Debug("known game detected",
			zap.String("game", entry.Title),
			zap.String("executable", entry.Executable))
		return Known(entry.Title, entry.Executable)
	}

	if d.guessUnknown {
		if executable, name, ok := MatchUnknown(running, d.catalog); ok {
			d.logger.Debug("unknown game guessed",
				zap.String("executable", executable),
				zap.String("suggested_name", name))
			return Unknown(executable, name)
		}
	}

	return None()
}
