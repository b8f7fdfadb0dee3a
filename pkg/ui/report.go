package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/detcover/detcover/pkg/finding"
	"github.com/detcover/detcover/pkg/headermap"
	"github.com/detcover/detcover/pkg/importer"
	"github.com/detcover/detcover/pkg/strutil"
)

// maxMessage keeps one finding on one terminal line.
const maxMessage = 120

// FormatFinding renders a finding in scanner one-line style:
//
//	[error] [cross-field] triggered_rules: triggered rules cannot exceed tested rules
func FormatFinding(f finding.Finding) string {
	sev := render(SeverityStyle(f.Severity), f.Severity.String())
	rule := render(MutedStyle, f.RuleID)
	msg := strutil.Truncate(f.Message, maxMessage)
	if f.Field == "" {
		return fmt.Sprintf("[%s] [%s] %s", sev, rule, msg)
	}
	return fmt.Sprintf("[%s] [%s] %s: %s", sev, rule, render(NumberStyle, f.Field), msg)
}

// PrintMappingSuggestions writes the matcher's proposal, one line per
// header, flagging unresolved headers for manual -map overrides.
func PrintMappingSuggestions(w io.Writer, candidates []headermap.MappingCandidate) {
	fmt.Fprintln(w, render(HeaderStyle, "Header mapping"))
	for _, mc := range candidates {
		if mc.Resolved() {
			fmt.Fprintf(w, "  %-30s %s %s %s\n",
				strutil.Truncate(mc.RawHeader, 30),
				render(MutedStyle, "->"),
				mc.BestField,
				render(MutedStyle, fmt.Sprintf("(%.2f)", mc.Confidence)))
			continue
		}
		fmt.Fprintf(w, "  %-30s %s\n",
			strutil.Truncate(mc.RawHeader, 30),
			render(WarningStyle, "unresolved"))
	}
}

// PrintImportResult writes the per-row findings and the commit summary.
func PrintImportResult(w io.Writer, res importer.Result) {
	for _, row := range res.Rows {
		for _, f := range row.Findings {
			fmt.Fprintf(w, "  row %d: %s\n", row.Line, FormatFinding(f))
		}
	}
	if len(res.Unresolved) > 0 {
		fmt.Fprintf(w, "%s %s\n",
			render(WarningStyle, "unmapped columns:"),
			strings.Join(res.Unresolved, ", "))
	}

	kept := render(OKStyle, fmt.Sprintf("%d committed", res.Committed))
	skipped := len(res.Rows) - res.Committed
	line := fmt.Sprintf("%s: %s", res.Category, kept)
	if skipped > 0 {
		line += ", " + render(ErrorStyle, fmt.Sprintf("%d rejected", skipped))
	}
	fmt.Fprintln(w, line)
}

// PrintFindings writes a validation report grouped as given.
func PrintFindings(w io.Writer, title string, findings []finding.Finding) {
	fmt.Fprintln(w, render(HeaderStyle, title))
	if len(findings) == 0 {
		fmt.Fprintf(w, "  %s\n", render(OKStyle, "no findings"))
		return
	}
	for _, f := range findings {
		fmt.Fprintf(w, "  %s\n", FormatFinding(f))
	}
}
