package deps

import (
	"slices"
	"strings"
)

// DefaultInstaller is the instruction prefix every install line starts with.
const DefaultInstaller = "RUN uv pip install"

// continuation separates packages rendered one per line.
const continuation = " \\\n    "

// Options configures recipe assembly.
type Options struct {
	// Installer is the instruction prefix (default DefaultInstaller).
	Installer string
	// Pinned are override requirements emitted first with --upgrade, in order.
	Pinned []string
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Installer == "" {
		opts.Installer = DefaultInstaller
	}
	return opts
}

// Instruction is one rendered install instruction.
type Instruction struct {
	Category Category
	Pinned   bool
	Text     string
}

// Body is the ordered list of install instructions of a recipe.
type Body []Instruction

// String joins the instructions with newlines.
func (b Body) String() string {
	texts := make([]string, len(b))
	for i, in := range b {
		texts[i] = in.Text
	}
	return strings.Join(texts, "\n")
}

// Count returns the number of non-pinned instructions in category c.
func (b Body) Count(c Category) int {
	n := 0
	for _, in := range b {
		if !in.Pinned && in.Category == c {
			n++
		}
	}
	return n
}

// HasPinned reports whether the body starts with the pinned override.
func (b Body) HasPinned() bool {
	return len(b) > 0 && b[0].Pinned
}

// Render renders a directive as one instruction. Standard directives list one
// package per continuation line; the other categories put flags and packages
// on a single line.
func Render(d Directive, installer string) string {
	if installer == "" {
		installer = DefaultInstaller
	}
	if d.Category() == Standard {
		return installer + continuation + strings.Join(d.Packages, continuation)
	}
	parts := []string{installer}
	for _, f := range d.Flags {
		parts = append(parts, f.Tokens()...)
	}
	parts = append(parts, d.Packages...)
	return strings.Join(parts, " ")
}

// RenderPinned renders the override instruction. Entries keep their
// configured order and are single-quoted when not already.
func RenderPinned(pinned []string, installer string) string {
	if installer == "" {
		installer = DefaultInstaller
	}
	quoted := make([]string, len(pinned))
	for i, p := range pinned {
		p = strings.TrimSpace(p)
		if !isSingleQuoted(p) {
			p = "'" + p + "'"
		}
		quoted[i] = p
	}
	return installer + " --upgrade" + continuation + strings.Join(quoted, continuation)
}

// Assemble groups directives by category, sorts each group by rendered text
// and concatenates the groups in category order after the pinned override.
// Identical instructions within a group are emitted once.
func Assemble(directives []Directive, opts Options) Body {
	opts = opts.WithDefaults()

	groups := make(map[Category][]string, len(Categories))
	for _, d := range directives {
		c := d.Category()
		groups[c] = append(groups[c], Render(d, opts.Installer))
	}

	var body Body
	if len(opts.Pinned) > 0 {
		body = append(body, Instruction{Pinned: true, Text: RenderPinned(opts.Pinned, opts.Installer)})
	}
	for _, c := range Categories {
		texts := groups[c]
		slices.Sort(texts)
		for _, t := range slices.Compact(texts) {
			body = append(body, Instruction{Category: c, Text: t})
		}
	}
	return body
}

// Stats returns the number of non-pinned instructions per category.
func (b Body) Stats() map[Category]int {
	stats := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		stats[c] = b.Count(c)
	}
	return stats
}
