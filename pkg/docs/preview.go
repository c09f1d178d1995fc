package docs

import (
	"github.com/charmbracelet/glamour"

	"github.com/matzehuels/stackdistro/pkg/errors"
)

// Preview renders Markdown for the terminal. A style of "" or "auto" detects
// the terminal background; width 0 keeps glamour's default wrapping.
func Preview(markdown, style string, width int) (string, error) {
	var opts []glamour.TermRendererOption
	if style != "" && style != "auto" {
		opts = append(opts, glamour.WithStandardStyle(style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create markdown renderer")
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render markdown")
	}
	return out, nil
}
