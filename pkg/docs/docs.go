// Package docs renders the distribution README: a header naming the base
// dependency version and a table of every configured provider.
package docs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/matzehuels/stackdistro/pkg/distro"
	"github.com/matzehuels/stackdistro/pkg/errors"
	"github.com/matzehuels/stackdistro/pkg/version"
)

// Table columns.
const (
	tableHeader    = "| API | Provider | External? | Enabled by default? | How to enable |"
	tableSeparator = "|-----|----------|-----------|---------------------|---------------|"
)

// Enabled column values.
const (
	Enabled  = "✅"
	Disabled = "❌"
)

// conditionalPattern matches ${VAR:+value} inside a provider id.
var conditionalPattern = regexp.MustCompile(`\$\{([^}]*:\+[^}]*)\}`)

// Row is one provider row of the table.
type Row struct {
	API         string
	Provider    string
	External    string
	Enabled     string
	HowToEnable string
}

// String renders the row as a Markdown table line.
func (r Row) String() string {
	return fmt.Sprintf("| %s | %s | %s | %s | %s |", r.API, r.Provider, r.External, r.Enabled, r.HowToEnable)
}

// EnableCondition returns the environment variable that enables a provider
// whose id is conditional (${env.VAR:+id}), with a leading "env." removed.
func EnableCondition(providerID string) (string, bool) {
	m := conditionalPattern.FindStringSubmatch(providerID)
	if m == nil {
		return "", false
	}
	name, _, _ := strings.Cut(m[1], ":+")
	return strings.TrimPrefix(name, "env."), true
}

// BuildRows returns one row per provider of the run config, sorted by API
// then provider type. external maps provider types to their External column;
// absent types are "No". A run config without any API is an error.
func BuildRows(run *distro.RunConfig, external map[string]string) ([]Row, error) {
	if run == nil || len(run.APIs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no providers found in run config")
	}

	var rows []Row
	for _, api := range run.APIs {
		for _, p := range api.Providers {
			row := Row{
				API:         api.Name,
				Provider:    p.Type,
				External:    "No",
				Enabled:     Enabled,
				HowToEnable: "N/A",
			}
			if status, ok := external[p.Type]; ok {
				row.External = status
			}
			if env, ok := EnableCondition(p.ID); ok {
				row.Enabled = Disabled
				row.HowToEnable = fmt.Sprintf("Set the `%s` environment variable", env)
			}
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].API != rows[j].API {
			return rows[i].API < rows[j].API
		}
		return rows[i].Provider < rows[j].Provider
	})
	return rows, nil
}

// RenderTable renders rows as a Markdown table without a trailing newline.
func RenderTable(rows []Row) string {
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, tableHeader, tableSeparator)
	for _, r := range rows {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// HeaderData fills the README header.
type HeaderData struct {
	Title     string
	Vendor    string
	Generator string
	Version   version.Link
}

// Header renders the README preamble, ending with a blank line.
func Header(d HeaderData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<!-- This file is automatically generated by %s - do not update manually -->\n\n", d.Generator)
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "This image contains the official %s Llama Stack distribution, with all the packages and configuration needed to run a Llama Stack server in a containerized environment.\n\n", d.Vendor)
	fmt.Fprintf(&b, "The image is currently shipping with the %s version of Llama Stack version [%s](%s)\n\n", d.Vendor, d.Version.Display, d.Version.URL)
	b.WriteString("You can see an overview of the APIs and Providers the image ships with in the table below.\n\n")
	return b.String()
}

// Render returns the complete README.
func Render(d HeaderData, rows []Row) string {
	return Header(d) + RenderTable(rows) + "\n"
}
