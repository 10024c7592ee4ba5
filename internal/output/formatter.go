package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Formatter renders a report into bytes
type Formatter interface {
	Format(r *Report) ([]byte, error)
	Name() string
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]func() Formatter{
	"console":      func() Formatter { return ConsoleFormatter{} },
	"console-lite": func() Formatter { return ConsoleLiteFormatter{} },
	"json":         func() Formatter { return JSONFormatter{Pretty: true} },
	"yaml":         func() Formatter { return YAMLFormatter{} },
	"csv":          func() Formatter { return CSVFormatter{} },
	"html":         func() Formatter { return HTMLFormatter{} },
}

var formatAliases = map[string]string{
	"text":            "console",
	"verbose":         "console",
	"console-verbose": "console",
	"summary":         "console-lite",
	"lite":            "console-lite",
	"yml":             "yaml",
}

// AvailableFormatterNames returns the canonical formatter names in sorted order
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the accepted aliases in sorted order
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// GetFormatterByName resolves a formatter name or alias, case-insensitively.
// It returns nil for unknown names.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatAliases[name]; ok {
		name = canonical
	}
	if ctor, ok := formatters[name]; ok {
		return ctor()
	}
	return nil
}

// WriteFormatted renders r and writes it to finplan_report_<timestamp>.<ext> in dir,
// returning the path written
func WriteFormatted(f Formatter, r *Report, dir, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", fmt.Errorf("failed to format report: %w", err)
	}
	if dir == "" {
		dir = "."
	}
	filename := fmt.Sprintf("%s/finplan_report_%s.%s", strings.TrimSuffix(dir, "/"), time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}
