// Package gitmeta resolves branch heads of remote git repositories.
//
// Lookups are best effort. The docs pipeline links to the branch itself when
// a lookup fails or times out.
package gitmeta

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackdistro/pkg/cache"
	"github.com/matzehuels/stackdistro/pkg/errors"
	"github.com/matzehuels/stackdistro/pkg/observability"
	"github.com/matzehuels/stackdistro/pkg/version"
)

const (
	// DefaultTimeout bounds a whole lookup, retries included.
	DefaultTimeout = 10 * time.Second
	// CacheTTL is how long a resolved branch head is reused.
	CacheTTL = 10 * time.Minute

	attempts   = 2
	retryDelay = time.Second
)

// Runner runs a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Lookup resolves branch heads with git ls-remote.
type Lookup struct {
	Runner  Runner
	Cache   cache.Cache
	Timeout time.Duration
	Logger  *log.Logger
}

// NewLookup returns a Lookup. A nil cache disables caching; a nil logger
// uses log.Default().
func NewLookup(runner Runner, c cache.Cache, logger *log.Logger) *Lookup {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Lookup{Runner: runner, Cache: c, Timeout: DefaultTimeout, Logger: logger}
}

// ResolveBranch returns the commit at the head of branch in the repository
// at url, and whether it came from the cache.
func (l *Lookup) ResolveBranch(ctx context.Context, url, branch string) (string, bool, error) {
	key := cache.RefKey(url, branch)
	if data, hit, err := l.Cache.Get(ctx, key); err == nil && hit && version.IsCommit(string(data)) {
		observability.Cache().OnCacheHit(ctx, "ref")
		return string(data), true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "ref")

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var commit string
	err := cache.RetryWithBackoff(ctx, attempts, retryDelay, func() error {
		out, err := l.Runner.Run(ctx, "git", "ls-remote", url, "refs/heads/"+branch)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return cache.Retryable(err)
		}
		commit, err = parseLsRemote(out)
		return err
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", false, errors.Wrap(errors.ErrCodeTimeout, err, "resolve %s of %s after %s", branch, url, timeout)
		}
		return "", false, errors.Wrap(errors.ErrCodeLookupFailed, err, "resolve %s of %s", branch, url)
	}

	if err := l.Cache.Set(ctx, key, []byte(commit), CacheTTL); err != nil {
		l.Logger.Debug("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "ref", len(commit))
	}
	return commit, false, nil
}

// parseLsRemote returns the commit of the first "<hash>\t<ref>" line.
func parseLsRemote(out []byte) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", errors.New(errors.ErrCodeLookupFailed, "branch not found")
	}
	if !version.IsCommit(fields[0]) {
		return "", errors.New(errors.ErrCodeLookupFailed, "unexpected ls-remote output %q", line)
	}
	return fields[0], nil
}
