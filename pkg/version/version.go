// Package version interprets the base dependency version: whether it is a
// release or a source revision, how it is installed, and how it is found
// again in a generated recipe.
package version

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/matzehuels/stackdistro/pkg/errors"
)

// Defaults for the base dependency.
const (
	DefaultBase   = "v0.4.0+rhai0"
	DefaultOwner  = "opendatahub-io"
	DefaultMarker = "+rhai"
	Package       = "llama-stack"
)

// Parse parses a release version such as 0.4.0, v0.4.0rc1 or 0.4.0+rhai0.
func Parse(v string) (*goversion.Version, error) {
	parsed, err := goversion.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid version %q", v)
	}
	return parsed, nil
}

// IsInstallFromSource reports whether v must be installed from the source
// repository: a revision without dots, or a version carrying the build
// marker. An empty marker disables the marker check.
func IsInstallFromSource(v, marker string) bool {
	if !strings.Contains(v, ".") {
		return true
	}
	return marker != "" && strings.Contains(v, marker)
}

// RepoURL returns the clone URL of the base dependency's repository.
func RepoURL(owner string) string {
	if owner == "" {
		owner = DefaultOwner
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, Package)
}

// SourceRequirement returns the pip requirement that installs v from source.
func SourceRequirement(owner, v string) string {
	return fmt.Sprintf("git+%s@%s", RepoURL(owner), v)
}

// SourceInstallInstruction returns the recipe instruction that installs v
// from source without touching already installed dependencies.
func SourceInstallInstruction(owner, v string) string {
	return "RUN uv pip install --no-cache --no-deps " + SourceRequirement(owner, v)
}

// Matches reports whether the installed version satisfies the expected one.
// Both are compared as versions, build metadata included, when they parse;
// otherwise the trimmed strings must be equal.
func Matches(expected, installed string) bool {
	expected, installed = strings.TrimSpace(expected), strings.TrimSpace(installed)
	e, errE := goversion.NewVersion(expected)
	i, errI := goversion.NewVersion(installed)
	if errE != nil || errI != nil {
		return expected == installed
	}
	return e.Equal(i) && e.Metadata() == i.Metadata()
}

// Check returns a VERSION_MISMATCH error wrapping a VersionMismatchError
// when installed does not match expected.
func Check(expected, installed string) error {
	if Matches(expected, installed) {
		return nil
	}
	mismatch := &errors.VersionMismatchError{
		Expected:  strings.TrimSpace(expected),
		Installed: strings.TrimSpace(installed),
	}
	return errors.Wrap(errors.ErrCodeVersionMismatch, mismatch, "%s version check failed", Package).
		WithHint("if you just bumped base_version, also update the pinned %s version in your pre-commit config", Package)
}
