package ictx

import "log/slog"

// Options configures a Database beyond just its Backend: a plain struct
// built from sensible defaults rather than a chain of functional-option
// closures.
type Options struct {
	// CacheType selects the optional L2 read cache a Database is minted
	// with. The zero value, NoCache, disables it.
	CacheType CacheType

	// Logger receives transaction lifecycle events (begin, phase-1
	// failure, commit success, rollback). Nil means slog.Default().
	Logger *slog.Logger

	// CommitLogLevel is the level transaction lifecycle events log at.
	CommitLogLevel slog.Level
}

var defaultOptions = Options{
	CacheType:      NoCache,
	CommitLogLevel: slog.LevelDebug,
}

// SetDefaultOptions replaces the options New and NewWithCache build on top
// of for every Database minted afterward.
func SetDefaultOptions(opt Options) {
	defaultOptions = opt
}

// DefaultOptions returns the options New and NewWithCache currently build
// on top of.
func DefaultOptions() Options {
	return defaultOptions
}

// ConfigureOptions builds an Options value from the current defaults,
// overriding just what the caller supplies. A nil logger leaves the
// default logger in place.
func ConfigureOptions(cacheType CacheType, logger *slog.Logger) Options {
	opt := DefaultOptions()
	opt.CacheType = cacheType
	if logger != nil {
		opt.Logger = logger
	}
	return opt
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
