package recipe

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/stackdistro/pkg/errors"
)

// Template field names.
const (
	FieldDependencies  = "dependencies"
	FieldSourceInstall = "llama_stack_install_source"
)

// Fields maps template field names to their values.
type Fields map[string]string

// segment is either a literal run of text or a named field.
type segment struct {
	literal string
	field   string
}

// Template is a parsed recipe template. Fields are written {name}; literal
// braces are written {{ and }}.
type Template struct {
	name     string
	segments []segment
}

// LoadTemplate reads and parses the template at path. A missing or
// unreadable file is a TEMPLATE error.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeTemplate, err, "template file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeTemplate, err, "read template %s", path)
	}
	return ParseTemplate(path, string(data))
}

// ParseTemplate parses template text. The template must reference the
// dependencies field.
func ParseTemplate(name, text string) (*Template, error) {
	t := &Template{name: name}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, t.errorf(text, i, "unterminated field")
			}
			field := text[i+1 : i+1+end]
			if !isFieldName(field) {
				return nil, t.errorf(text, i, "invalid field name %q", field)
			}
			flush()
			t.segments = append(t.segments, segment{field: field})
			i += end + 1
		case c == '}':
			return nil, t.errorf(text, i, "single '}' encountered")
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	if !t.HasField(FieldDependencies) {
		return nil, errors.New(errors.ErrCodeTemplate, "%s: missing {%s} field", name, FieldDependencies)
	}
	return t, nil
}

// HasField reports whether the template references field.
func (t *Template) HasField(field string) bool {
	for _, s := range t.segments {
		if s.field == field {
			return true
		}
	}
	return false
}

// Execute substitutes fields into the template. Every referenced field must
// be present in fields; empty values are allowed.
func (t *Template) Execute(fields Fields) (string, error) {
	var sb strings.Builder
	for _, s := range t.segments {
		if s.field == "" {
			sb.WriteString(s.literal)
			continue
		}
		v, ok := fields[s.field]
		if !ok {
			return "", errors.New(errors.ErrCodeTemplate, "%s: no value for field {%s}", t.name, s.field)
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

// errorf reports a syntax error at byte offset off as line:column.
func (t *Template) errorf(text string, off int, format string, args ...any) error {
	line := strings.Count(text[:off], "\n") + 1
	col := off - strings.LastIndexByte(text[:off], '\n')
	return errors.New(errors.ErrCodeTemplate, "%s:%d:%d: %s", t.name, line, col, fmt.Sprintf(format, args...))
}

func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' && i > 0) {
			return false
		}
	}
	return true
}
