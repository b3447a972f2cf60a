// Package export renders a statistics report in the supported formats.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xvierd/tempo/internal/domain"
)

// Supported format names.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Formatter renders a report.
type Formatter interface {
	Format(r domain.Report) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(r domain.Report) ([]byte, error)

// Format calls f(r).
func (f FormatterFunc) Format(r domain.Report) ([]byte, error) { return f(r) }

var formatters = map[string]Formatter{
	FormatJSON:     FormatterFunc(formatJSON),
	FormatCSV:      FormatterFunc(formatCSV),
	FormatText:     FormatterFunc(formatText),
	FormatMarkdown: FormatterFunc(formatMarkdown),
	FormatYAML:     FormatterFunc(formatYAML),
}

var aliases = map[string]string{
	"txt": FormatText,
	"md":  FormatMarkdown,
	"yml": FormatYAML,
}

// Lookup returns the formatter for a format name or alias.
func Lookup(format string) (Formatter, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	f, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return f, nil
}

// Render formats r in the named format.
func Render(r domain.Report, format string) ([]byte, error) {
	f, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	return f.Format(r)
}

// Formats lists the canonical format names.
func Formats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContentType returns the MIME type of a format name or alias.
func ContentType(format string) string {
	name := strings.ToLower(strings.TrimSpace(format))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	switch name {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
