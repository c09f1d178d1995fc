package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// pythonPackageNameRegex matches valid Python package names (PEP 508).
var pythonPackageNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// pinnedSpecRegex matches a pinned requirement: name, optional extras, and at
// least one version clause.
var pinnedSpecRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*(\[[A-Za-z0-9._,-]+\])?(==|>=|<=|~=|!=|>|<)[^\s']+$`)

// extraNameRegex matches a valid extra name.
var extraNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePythonPackageName validates a Python package name per PEP 508.
func ValidatePythonPackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "package name cannot be empty")
	}
	if !pythonPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid Python package name: %q", name)
	}
	return nil
}

// ValidateExtraName validates the name of a package extra.
func ValidateExtraName(extra string) error {
	if !extraNameRegex.MatchString(extra) {
		return New(ErrCodeInvalidConfig, "invalid extra name: %q", extra)
	}
	return nil
}

// ValidatePinnedSpec validates one pinned override entry. The entry may be
// wrapped in single quotes; the unquoted form must carry a version clause.
func ValidatePinnedSpec(spec string) error {
	s := strings.TrimSpace(spec)
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return New(ErrCodeInvalidConfig, "pinned requirement cannot be empty")
	}
	if !pinnedSpecRegex.MatchString(s) {
		return New(ErrCodeInvalidConfig, "pinned requirement %q must look like 'name==version'", spec)
	}
	return nil
}

// ValidateRevision validates a version or revision string that ends up inside
// a shell command. It rejects whitespace, control characters and shell
// metacharacters.
func ValidateRevision(rev string) error {
	if rev == "" {
		return New(ErrCodeInvalidConfig, "version cannot be empty")
	}
	for _, r := range rev {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "version %q contains whitespace or control characters", rev)
		}
	}
	if strings.ContainsAny(rev, "'\"`$;&|<>\\") {
		return New(ErrCodeInvalidConfig, "version %q contains shell metacharacters", rev)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
