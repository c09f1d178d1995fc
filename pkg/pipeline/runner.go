package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdistro/pkg/cache"
	"github.com/matzehuels/stackdistro/pkg/gitmeta"
	"github.com/matzehuels/stackdistro/pkg/resolver"
)

// Runner executes the build and docs pipelines.
//
// The Runner holds no pipeline results; the same Runner can run several
// builds in sequence.
type Runner struct {
	Resolver *resolver.Resolver
	Lookup   *gitmeta.Lookup
	Cache    cache.Cache
	Logger   *log.Logger
}

// NewRunner creates a runner around the given resolver and cache.
// If res is nil, real commands are run.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(res *resolver.Resolver, c cache.Cache, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if res == nil {
		res = resolver.New(nil, logger)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Resolver: res,
		Lookup:   gitmeta.NewLookup(res.Runner, c, logger),
		Cache:    c,
		Logger:   logger,
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// logger returns the per-call logger if set, else the runner's.
func (r *Runner) logger(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return r.Logger
}
