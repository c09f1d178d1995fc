package recipe

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/errors"
)

// Lint checks that every instruction is a single shell command without
// redirections or command substitutions. An unquoted comparison such as
// numpy>=1.20 would otherwise be executed as a redirection into a file
// named "=1.20".
func Lint(body deps.Body) error {
	for i, in := range body {
		if err := LintInstruction(in.Text); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "instruction %d", i+1)
		}
	}
	return nil
}

// LintInstruction checks one RUN instruction.
func LintInstruction(text string) error {
	payload := strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(payload, "RUN "); ok {
		payload = rest
	}

	f, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(strings.NewReader(payload), "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "parse %q", firstLine(text))
	}
	if len(f.Stmts) != 1 {
		return errors.New(errors.ErrCodeInvalidRecipe, "%q must be a single command, found %d", firstLine(text), len(f.Stmts))
	}

	var bad error
	syntax.Walk(f, func(node syntax.Node) bool {
		if bad != nil {
			return false
		}
		switch n := node.(type) {
		case *syntax.Redirect:
			bad = errors.New(errors.ErrCodeInvalidRecipe, "unexpected redirection %q at %s", n.Op.String(), n.OpPos.String())
		case *syntax.CmdSubst:
			bad = errors.New(errors.ErrCodeInvalidRecipe, "unexpected command substitution at %s", n.Pos().String())
		case *syntax.BinaryCmd:
			bad = errors.New(errors.ErrCodeInvalidRecipe, "unexpected %q operator at %s", n.Op.String(), n.OpPos.String())
		}
		return bad == nil
	})
	return bad
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
