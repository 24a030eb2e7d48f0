package formatter

import (
	"strings"
)

// Formatter applies the cosmetic spacing used when generated Dart code is
// displayed or copied. It never changes tokens, only whitespace.
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format trims trailing whitespace from every line and separates members by
// inserting a blank line after a lone "}" line, unless the next line is
// already blank or is itself a lone "}".
func (f *Formatter) Format(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}

	lines := strings.Split(code, "\n")
	formatted := make([]string, 0, len(lines))

	for i, line := range lines {
		current := strings.TrimRight(line, " \t\r")
		formatted = append(formatted, current)

		next := ""
		if i < len(lines)-1 {
			next = strings.TrimSpace(lines[i+1])
		}
		if strings.TrimSpace(current) == "}" && next != "" && next != "}" {
			formatted = append(formatted, "")
		}
	}

	return strings.Join(formatted, "\n")
}
