package report

import (
	"strconv"
	"strings"

	"dangerreport/internal/danger"
)

// table renders one category as an HTML table. It returns "" when there is
// nothing visible to show, even though the hidden summary still counts
// empty-message violations.
func table(name, emoji string, vs []danger.Violation) string {
	rows := make([]string, 0, len(vs))
	for _, v := range vs {
		if v.Message == "" {
			continue
		}
		rows = append(rows, row(emoji, v))
	}
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n<table>\n")
	b.WriteString("  <thead>\n")
	b.WriteString("    <tr>\n")
	b.WriteString("      <th width=\"50\"></th>\n")
	b.WriteString("      <th width=\"100%\" data-danger-table=\"true\">" + name + "</th>\n")
	b.WriteString("    </tr>\n")
	b.WriteString("  </thead>\n")
	b.WriteString("  <tbody>")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("</tbody>\n")
	b.WriteString("</table>\n")
	return b.String()
}

func row(emoji string, v danger.Violation) string {
	message := v.Message
	if v.IsInline() {
		message = "**" + v.File + "#L" + strconv.Itoa(v.Line) + "** - " + message
	}
	if strings.ContainsAny(message, markdownChars) {
		message = "\n\n  " + message + "\n  "
	}

	var b strings.Builder
	b.WriteString("<tr>\n")
	b.WriteString("      <td>" + glyph(emoji, v) + "</td>\n")
	b.WriteString("      <td>" + message + "</td>\n")
	b.WriteString("    </tr>\n  ")
	return b.String()
}
