package deps

// Category selects how a directive is rendered and where it is placed in the
// recipe. Categories are emitted in declaration order.
type Category int

const (
	// Standard directives carry no recognized flag.
	Standard Category = iota
	// ExtraIndex directives install from an additional or replacement index.
	ExtraIndex
	// NoDeps directives must not pull transitive dependencies.
	NoDeps
	// NoCache directives install without the package cache.
	NoCache
)

// Categories lists every category in emission order.
var Categories = []Category{Standard, ExtraIndex, NoDeps, NoCache}

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Standard:
		return "standard"
	case ExtraIndex:
		return "extra-index"
	case NoDeps:
		return "no-deps"
	case NoCache:
		return "no-cache"
	default:
		return "unknown"
	}
}

// Categorize maps a flag set to exactly one category. Index flags win over
// --no-deps, which wins over --no-cache.
func Categorize(flags []Flag) Category {
	var noDeps, noCache bool
	for _, f := range flags {
		switch f.Name {
		case FlagExtraIndexURL, FlagIndexURL:
			return ExtraIndex
		case FlagNoDeps:
			noDeps = true
		case FlagNoCache:
			noCache = true
		}
	}
	switch {
	case noDeps:
		return NoDeps
	case noCache:
		return NoCache
	default:
		return Standard
	}
}
