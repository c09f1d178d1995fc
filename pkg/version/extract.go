package version

import (
	"regexp"

	"github.com/matzehuels/stackdistro/pkg/errors"
)

// Main is the branch name used when a recipe installs from the main branch.
const Main = "main"

const release = `[0-9]+\.[0-9]+\.[0-9]+(?:rc[0-9]+)?(?:\+rhai[0-9]+)?`

var (
	mainPattern    = regexp.MustCompile(`git\+https://github\.com/([^/]+)/llama-stack\.git@main\b`)
	pinPattern     = regexp.MustCompile(`llama-stack==(` + release + `)`)
	gitTagPattern  = regexp.MustCompile(`git\+https://github\.com/([^/]+)/llama-stack\.git@v?(` + release + `)`)
	gitRevPattern  = regexp.MustCompile(`git\+https://github\.com/([^/]+)/llama-stack\.git@([0-9a-fA-F]{7,40})\b`)
	commitHexRange = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)
)

// Ref is the base dependency version found in a recipe.
type Ref struct {
	Version string
	Owner   string
	// Main is set when the recipe installs the head of the main branch. The
	// caller resolves it to a commit.
	Main bool
}

// ExtractFromRecipe finds the base dependency version in recipe content. The
// main branch install wins over a pinned requirement, which wins over a
// tagged or revision source install.
func ExtractFromRecipe(content string) (Ref, error) {
	if m := mainPattern.FindStringSubmatch(content); m != nil {
		return Ref{Version: Main, Owner: m[1], Main: true}, nil
	}
	if m := pinPattern.FindStringSubmatch(content); m != nil {
		return Ref{Version: m[1], Owner: DefaultOwner}, nil
	}
	if m := gitTagPattern.FindStringSubmatch(content); m != nil {
		return Ref{Version: m[2], Owner: m[1]}, nil
	}
	if m := gitRevPattern.FindStringSubmatch(content); m != nil {
		return Ref{Version: m[2], Owner: m[1]}, nil
	}
	return Ref{}, errors.New(errors.ErrCodeInvalidRecipe, "could not find %s version in recipe", Package).
		WithHint("run 'stackdistro build' to regenerate the recipe")
}

// IsCommit reports whether v looks like a commit hash (7 to 40 hex digits).
func IsCommit(v string) bool {
	return commitHexRange.MatchString(v)
}

// Link is a display string and URL for a version.
type Link struct {
	Display string
	URL     string
}

// LinkFor returns the repository link for v: the commit page for a hash
// (displayed as 7 characters), the branch tree for main, the release page
// otherwise.
func LinkFor(owner, v string) Link {
	if owner == "" {
		owner = DefaultOwner
	}
	base := "https://github.com/" + owner + "/" + Package
	switch {
	case IsCommit(v):
		return Link{Display: v[:7], URL: base + "/commit/" + v}
	case v == Main:
		return Link{Display: v, URL: base + "/tree/main"}
	default:
		return Link{Display: v, URL: base + "/releases/tag/v" + v}
	}
}
