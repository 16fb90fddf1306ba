package pretty

import (
	"fmt"
	"strings"

	"github.com/gemrst/rst2gem/pkg/translate"
)

// FormatDiagnostic formats one parser diagnostic for terminal output:
//
//	source:line  severity  (type)  body
func (s *Styles) FormatDiagnostic(d translate.Diagnostic) string {
	location := fmt.Sprintf("%s:%d",
		s.FilePath.Render(d.Source),
		d.Line,
	)

	severity := s.FormatSeverity(d.Level)

	typ := ""
	if d.Type != "" && d.Type != d.Severity() {
		typ = "  " + s.Dim.Render("("+d.Type+")")
	}

	return fmt.Sprintf("  %s  %s%s  %s\n",
		location,
		severity,
		typ,
		s.Message.Render(s.fitBody(d.Body)),
	)
}

// fitBody trims the diagnostic body to the terminal width, leaving room for
// the location and severity columns.
func (s *Styles) fitBody(body string) string {
	body = strings.TrimSpace(body)
	limit := s.width - 30
	if limit < 10 {
		return body
	}
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit-3]) + "..."
}

// FormatDiagnostics formats a diagnostic list, one per line.
func (s *Styles) FormatDiagnostics(diags []translate.Diagnostic) string {
	var builder strings.Builder
	for _, d := range diags {
		builder.WriteString(s.FormatDiagnostic(d))
	}
	return builder.String()
}

// FormatSeverity returns a styled severity name for a docutils level.
func (s *Styles) FormatSeverity(level int) string {
	name := strings.ToLower(translate.Diagnostic{Level: level}.Severity())
	switch {
	case level >= 3:
		return s.Error.Render(name)
	case level == 2:
		return s.Warning.Render(name)
	default:
		return s.Info.Render(name)
	}
}

// FormatSummary formats the one-line conversion summary.
func (s *Styles) FormatSummary(input, output string, diagCount int) string {
	line := s.FilePath.Render(input) + " " + s.Dim.Render("->") + " " + s.FilePath.Render(output)
	if diagCount > 0 {
		line += " " + s.Warning.Render(fmt.Sprintf("(%d diagnostics)", diagCount))
	}
	return line
}
