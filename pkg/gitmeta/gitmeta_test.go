package gitmeta

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdistro/pkg/cache"
	"github.com/matzehuels/stackdistro/pkg/errors"
)

const (
	testURL    = "https://github.com/opendatahub-io/llama-stack.git"
	testCommit = "0123456789abcdef0123456789abcdef01234567"
)

type fakeGit struct {
	outputs []string
	errs    []error
	calls   int
	block   bool
}

func (f *fakeGit) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	i := f.calls
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.outputs) {
		return []byte(f.outputs[i]), nil
	}
	return nil, nil
}

func newTestLookup(g *fakeGit, c cache.Cache) *Lookup {
	return NewLookup(g, c, log.New(io.Discard))
}

func TestResolveBranch(t *testing.T) {
	g := &fakeGit{outputs: []string{testCommit + "\trefs/heads/main\n"}}
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	l := newTestLookup(g, c)
	ctx := context.Background()

	commit, hit, err := l.ResolveBranch(ctx, testURL, "main")
	require.NoError(t, err)
	assert.Equal(t, testCommit, commit)
	assert.False(t, hit)

	commit, hit, err = l.ResolveBranch(ctx, testURL, "main")
	require.NoError(t, err)
	assert.Equal(t, testCommit, commit)
	assert.True(t, hit)
	assert.Equal(t, 1, g.calls, "second lookup is served from cache")
}

func TestResolveBranch_RetriesTransientFailure(t *testing.T) {
	g := &fakeGit{
		errs:    []error{fmt.Errorf("could not resolve host"), nil},
		outputs: []string{"", testCommit + "\trefs/heads/main\n"},
	}
	l := newTestLookup(g, nil)

	commit, _, err := l.ResolveBranch(context.Background(), testURL, "main")
	require.NoError(t, err)
	assert.Equal(t, testCommit, commit)
	assert.Equal(t, 2, g.calls)
}

func TestResolveBranch_NotFound(t *testing.T) {
	g := &fakeGit{outputs: []string{""}}
	l := newTestLookup(g, nil)

	_, _, err := l.ResolveBranch(context.Background(), testURL, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeLookupFailed))
	assert.Equal(t, 1, g.calls, "a missing branch is not retried")
}

func TestResolveBranch_Timeout(t *testing.T) {
	l := newTestLookup(&fakeGit{block: true}, nil)
	l.Timeout = 20 * time.Millisecond

	_, _, err := l.ResolveBranch(context.Background(), testURL, "main")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeTimeout))
}

func TestParseLsRemote(t *testing.T) {
	got, err := parseLsRemote([]byte(testCommit + "\trefs/heads/main\nffffffffffffffffffffffffffffffffffffffff\trefs/heads/main-old\n"))
	require.NoError(t, err)
	assert.Equal(t, testCommit, got)

	_, err = parseLsRemote([]byte("   \n"))
	assert.Error(t, err)
}
