package deps

import (
	"slices"
	"strings"
)

// Rule is a pure rewrite of a single package spec. Rules never fail; a rule
// that does not apply returns its input unchanged.
type Rule func(PackageSpec) PackageSpec

// QuoteComparison single-quotes specs containing '<' or '>' so the shell does
// not read them as redirections.
func QuoteComparison(s PackageSpec) PackageSpec {
	if !s.Quoted && strings.ContainsAny(s.unquoted(), "<>") {
		s.Quoted = true
	}
	return s
}

// DottedNamespace rewrites name.suffix<op>version into name[suffix]<op>version.
// The resolver encodes optional sub-packages as dotted pseudo-names, while
// installers only understand extras. It applies only when the spec has no
// extras and the suffix is an identifier directly followed by an operator.
func DottedNamespace(s PackageSpec) PackageSpec {
	if len(s.Extras) > 0 || s.Operator() == "" {
		return s
	}
	dot := strings.LastIndexByte(s.Name, '.')
	if dot <= 0 || !isIdentifier(s.Name[dot+1:]) {
		return s
	}
	out := s.withExtras(s.Name[dot+1:])
	out.Name = s.Name[:dot]
	return out
}

// ExtraPatch forces an extra onto one package. It is used for packages whose
// default install is unusable in the target runtime.
type ExtraPatch struct {
	Package string `toml:"package"`
	Extra   string `toml:"extra"`
}

// DefaultPatches are the extra patches applied when none are configured.
var DefaultPatches = []ExtraPatch{
	{Package: "pymilvus", Extra: "milvus-lite"},
}

// Rule returns the patch as a rewrite rule.
func (p ExtraPatch) Rule() Rule {
	return func(s PackageSpec) PackageSpec {
		if s.Name != p.Package || s.HasExtra(p.Extra) {
			return s
		}
		return s.withExtras(p.Extra)
	}
}

// Normalizer applies an ordered list of rules to package tokens.
type Normalizer struct {
	rules []Rule
}

// NewNormalizer returns a normalizer applying, in order: comparison quoting,
// the given extra patches, then the dotted-namespace rewrite. The patches run
// again after the rewrite so that a name exposed by it (pymilvus.bulk becomes
// pymilvus[bulk]) is patched in the same pass. A nil patches slice selects
// DefaultPatches; an empty non-nil slice disables patching.
func NewNormalizer(patches []ExtraPatch) *Normalizer {
	if patches == nil {
		patches = DefaultPatches
	}
	rules := make([]Rule, 0, 2*len(patches)+2)
	rules = append(rules, QuoteComparison)
	for _, p := range patches {
		rules = append(rules, p.Rule())
	}
	rules = append(rules, DottedNamespace)
	for _, p := range patches {
		rules = append(rules, p.Rule())
	}
	return &Normalizer{rules: rules}
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize rewrites a single token with the default rules.
func Normalize(token string) string {
	return defaultNormalizer.Normalize(token)
}

// NormalizeAll normalizes tokens with the default rules, then deduplicates
// and sorts them.
func NormalizeAll(tokens []string) []string {
	return defaultNormalizer.NormalizeAll(tokens)
}

// Normalize rewrites a single token. Normalizing an already normalized token
// returns it unchanged.
func (n *Normalizer) Normalize(token string) string {
	s := ParseSpec(token)
	for _, rule := range n.rules {
		s = rule(s)
	}
	return s.String()
}

// NormalizeAll normalizes every token, then deduplicates by exact string
// equality and sorts lexicographically.
func (n *Normalizer) NormalizeAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, n.Normalize(t))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Directive returns a copy of d with its packages normalized, deduplicated
// and sorted. Flags are left untouched.
func (n *Normalizer) Directive(d Directive) Directive {
	return Directive{
		Packages: n.NormalizeAll(d.Packages),
		Flags:    slices.Clone(d.Flags),
	}
}
