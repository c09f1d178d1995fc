package deps

import (
	"bufio"
	"io"
	"slices"
	"strings"

	shlex "github.com/anmitsu/go-shlex"

	"github.com/matzehuels/stackdistro/pkg/errors"
)

// Recognized install flags.
const (
	FlagExtraIndexURL = "--extra-index-url"
	FlagIndexURL      = "--index-url"
	FlagNoDeps        = "--no-deps"
	FlagNoCache       = "--no-cache"
)

// flagTakesValue maps each recognized flag to whether it consumes an argument.
var flagTakesValue = map[string]bool{
	FlagExtraIndexURL: true,
	FlagIndexURL:      true,
	FlagNoDeps:        false,
	FlagNoCache:       false,
}

// maxLineSize bounds a single resolver output line.
const maxLineSize = 1 << 20

// Flag is a recognized install modifier. Value is empty for flags that take
// no argument.
type Flag struct {
	Name  string
	Value string
}

// Tokens returns the flag as it appears on a command line.
func (f Flag) Tokens() []string {
	if f.Value == "" {
		return []string{f.Name}
	}
	return []string{f.Name, f.Value}
}

// Directive is one parsed resolver line: the packages to install and the
// flags to install them with.
type Directive struct {
	Packages []string
	Flags    []Flag
}

// Category returns the install category selected by the directive's flags.
func (d Directive) Category() Category {
	return Categorize(d.Flags)
}

// Parser turns resolver output into directives.
type Parser struct {
	// Strict rejects tokens that start with "--" but are not a recognized
	// flag. When false they are kept as package tokens.
	Strict bool

	// Normalizer rewrites package tokens. Nil selects the default rules.
	Normalizer *Normalizer
}

// ParseLine tokenizes one line with the default lenient parser.
func ParseLine(line string) (Directive, bool, error) {
	return (&Parser{}).ParseLine(line)
}

// ParseLine tokenizes one resolver line using POSIX shell quoting. Packages
// are returned in first-seen order with exact duplicates removed; they are
// not normalized. The boolean is false for blank lines, which produce no
// directive.
func (p *Parser) ParseLine(line string) (Directive, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Directive{}, false, nil
	}

	tokens, err := shlex.Split(line, true)
	if err != nil {
		return Directive{}, false, errors.Wrap(errors.ErrCodeParse, err, "tokenize %q", line)
	}

	var d Directive
	seen := make(map[string]bool, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "--") {
			if !seen[tok] {
				seen[tok] = true
				d.Packages = append(d.Packages, tok)
			}
			continue
		}

		name, value, hasValue := strings.Cut(tok, "=")
		takesValue, known := flagTakesValue[name]
		switch {
		case !known:
			if p.Strict {
				return Directive{}, false, errors.New(errors.ErrCodeParse, "unrecognized flag %q in %q", tok, line)
			}
			if !seen[tok] {
				seen[tok] = true
				d.Packages = append(d.Packages, tok)
			}
			continue
		case takesValue && !hasValue:
			if i+1 >= len(tokens) {
				return Directive{}, false, errors.New(errors.ErrCodeParse, "flag %s requires a value in %q", name, line)
			}
			i++
			value = tokens[i]
		case !takesValue && hasValue:
			return Directive{}, false, errors.New(errors.ErrCodeParse, "flag %s takes no value in %q", name, line)
		}
		if takesValue {
			if value == "" {
				return Directive{}, false, errors.New(errors.ErrCodeParse, "flag %s requires a value in %q", name, line)
			}
			if err := errors.ValidateURL(value); err != nil {
				return Directive{}, false, errors.Wrap(errors.ErrCodeParse, err, "flag %s in %q", name, line)
			}
		}

		f := Flag{Name: name, Value: value}
		if !slices.Contains(d.Flags, f) {
			d.Flags = append(d.Flags, f)
		}
	}

	if len(d.Packages) == 0 {
		return Directive{}, false, errors.New(errors.ErrCodeParse, "no packages in %q", line)
	}
	return d, true, nil
}

// ParseOutput reads resolver output line by line and returns the normalized
// directives in input order. The first malformed line aborts the whole parse
// and no directives are returned.
func (p *Parser) ParseOutput(r io.Reader) ([]Directive, error) {
	n := p.Normalizer
	if n == nil {
		n = defaultNormalizer
	}

	var out []Directive
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		d, ok, err := p.ParseLine(scanner.Text())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "resolver output line %d", lineNo)
		}
		if ok {
			out = append(out, n.Directive(d))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read resolver output")
	}
	return out, nil
}
