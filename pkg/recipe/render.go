package recipe

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/stackdistro/pkg/deps"
	"github.com/matzehuels/stackdistro/pkg/errors"
)

// DefaultGenerator is the name written into the generated-file header.
const DefaultGenerator = "stackdistro build"

// Header returns the warning placed at the top of every generated recipe.
func Header(generator string) string {
	if generator == "" {
		generator = DefaultGenerator
	}
	return fmt.Sprintf("# WARNING: This file is auto-generated. Do not modify it manually.\n# Generated by: %s\n\n", generator)
}

// Render fills the template with the assembled body and the optional source
// install instruction, prepends the header and removes whitespace-only
// lines. An empty sourceInstall leaves no trace in the output.
func Render(t *Template, body deps.Body, sourceInstall, generator string) (string, error) {
	content, err := t.Execute(Fields{
		FieldDependencies:  strings.TrimRight(body.String(), " \t\r\n"),
		FieldSourceInstall: strings.TrimRight(sourceInstall, " \t\r\n"),
	})
	if err != nil {
		return "", err
	}
	return StripBlankLines(Header(generator) + content), nil
}

// StripBlankLines drops every line that contains only whitespace and ends the
// result with a single newline.
func StripBlankLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n") + "\n"
}

// WriteFile overwrites path with content.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
