package deps

import "strings"

// comparisonOps are the version operators recognized after a package name.
// Two-character operators come first so that ">=" is not read as ">".
var comparisonOps = []string{"==", ">=", "<=", "~=", "!=", ">", "<"}

// PackageSpec is a single package token broken into the parts the
// normalization rules rewrite. The zero value renders as the empty string.
//
// A token follows the grammar name[extras]rest where name is made of
// letters, digits, '.', '_' and '-', the bracketed extras are optional and
// rest is kept verbatim (version clause, markers, URL fragments). Tokens that
// do not start with a name are kept opaque and only ever quoted.
type PackageSpec struct {
	Name   string   // Distribution name, possibly dotted (e.g. "pkg.extra")
	Extras []string // Declared extras in declaration order
	Rest   string   // Everything after the name and extras, verbatim
	Quoted bool     // Render wrapped in single quotes

	opaque string
}

// ParseSpec decomposes a package token. A token wrapped in single quotes is
// unwrapped and remembered as quoted.
func ParseSpec(token string) PackageSpec {
	var s PackageSpec
	inner := token
	if isSingleQuoted(token) {
		inner = token[1 : len(token)-1]
		s.Quoted = true
	}

	i := 0
	for i < len(inner) && isNameByte(inner[i]) {
		i++
	}
	if i == 0 {
		s.opaque = inner
		return s
	}
	s.Name = inner[:i]
	rest := inner[i:]

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			s.Name = ""
			s.opaque = inner
			return s
		}
		for _, e := range strings.Split(rest[1:end], ",") {
			if e = strings.TrimSpace(e); e != "" {
				s.Extras = append(s.Extras, e)
			}
		}
		rest = rest[end+1:]
	}
	s.Rest = rest
	return s
}

// String renders the spec back into a single token.
func (s PackageSpec) String() string {
	body := s.unquoted()
	if s.Quoted {
		return "'" + body + "'"
	}
	return body
}

// unquoted renders the spec without the surrounding single quotes.
func (s PackageSpec) unquoted() string {
	if s.Name == "" {
		return s.opaque
	}
	var sb strings.Builder
	sb.WriteString(s.Name)
	if len(s.Extras) > 0 {
		sb.WriteByte('[')
		sb.WriteString(strings.Join(s.Extras, ","))
		sb.WriteByte(']')
	}
	sb.WriteString(s.Rest)
	return sb.String()
}

// HasExtra reports whether the spec declares the given extra.
func (s PackageSpec) HasExtra(extra string) bool {
	for _, e := range s.Extras {
		if e == extra {
			return true
		}
	}
	return false
}

// Operator returns the comparison operator that starts Rest, or "" if Rest
// does not begin with a version clause.
func (s PackageSpec) Operator() string {
	for _, op := range comparisonOps {
		if strings.HasPrefix(s.Rest, op) {
			return op
		}
	}
	return ""
}

// withExtras returns a copy of s whose Extras slice is not shared with s.
func (s PackageSpec) withExtras(extras ...string) PackageSpec {
	out := s
	out.Extras = make([]string, 0, len(s.Extras)+len(extras))
	out.Extras = append(out.Extras, s.Extras...)
	out.Extras = append(out.Extras, extras...)
	return out
}

func isSingleQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\''
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '.' || c == '_' || c == '-'
}

// isIdentifier reports whether s is a valid identifier: a letter or
// underscore followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
