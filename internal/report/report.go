// Package report renders a danger.ResultSet into comment bodies: a
// table-based issue comment and a compact bullet list anchored to a
// file/line. Rendering is a pure transform; inputs are never modified.
package report

import (
	"fmt"
	"strings"

	"dangerreport/internal/danger"
)

// FixableMessage is the status description used when a result set has
// failures.
const FixableMessage = "Found some issues. Don't worry, everything is fixable."

// Default GitHub emoji shortcodes per category, used when a violation has
// no icon of its own.
const (
	// EmojiFail marks failures.
	EmojiFail = "no_entry_sign"
	// EmojiWarning marks warnings.
	EmojiWarning = "warning"
	// EmojiMessage marks messages.
	EmojiMessage = "book"
)

// summaryMessageLength is the number of characters each message keeps in
// the hidden summary block.
const summaryMessageLength = 20

// markdownChars force a table cell onto its own paragraph so GitHub renders
// the markup instead of showing it literally.
const markdownChars = "`*_~["

// DangerIDMarker is the hidden line used to find a previously posted comment.
func DangerIDMarker(buildID string) string {
	return fmt.Sprintf("DangerID: danger-id-%s;", buildID)
}

// FileMarker is the hidden line naming the file of an inline comment.
func FileMarker(file string) string {
	return fmt.Sprintf("File: %s;", file)
}

// LineMarker is the hidden line naming the line of an inline comment.
func LineMarker(line int) string {
	return fmt.Sprintf("Line: %d;", line)
}

// RenderIssueBody renders the full comment body. commitRef is optional; when
// non-empty the signature names the commit the results were produced against.
func RenderIssueBody(buildID string, results danger.ResultSet, commitRef string) string {
	var b strings.Builder
	b.WriteString(hiddenSummary(summaryLines(buildID, results)))
	b.WriteString(table("Fails", EmojiFail, results.Fails))
	b.WriteString(table("Warnings", EmojiWarning, results.Warnings))
	b.WriteString(table("Messages", EmojiMessage, results.Messages))
	b.WriteString("\n")
	b.WriteString(markdowns(results.Markdowns))
	b.WriteString("\n")
	b.WriteString(signaturePostfix(results, commitRef))
	return b.String()
}

// RenderInlineBody renders a compact body for the violations at file:line.
func RenderInlineBody(buildID string, results danger.ResultSet, file string, line int) string {
	lines := append(summaryLines(buildID, results), FileMarker(file), LineMarker(line))

	var b strings.Builder
	b.WriteString(hiddenSummary(lines))
	b.WriteString(bullets(EmojiFail, results.Fails))
	b.WriteString(bullets(EmojiWarning, results.Warnings))
	b.WriteString(bullets(EmojiMessage, results.Messages))
	b.WriteString("\n")
	b.WriteString(markdowns(results.Markdowns))
	return b.String()
}

func hiddenSummary(lines []string) string {
	var b strings.Builder
	b.WriteString("<!--\n")
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("-->\n")
	return b.String()
}

func summaryLines(buildID string, results danger.ResultSet) []string {
	lines := []string{
		violationSummary(plural(len(results.Fails), "failure", "failures"), results.Fails),
		violationSummary(plural(len(results.Warnings), "warning", "warnings"), results.Warnings),
	}
	if n := len(results.Messages); n > 0 {
		lines = append(lines, fmt.Sprintf("%d %s", n, plural(n, "message", "messages")))
	}
	if n := len(results.Markdowns); n > 0 {
		lines = append(lines, fmt.Sprintf("%d %s", n, plural(n, "markdown notice", "markdown notices")))
	}
	return append(lines, DangerIDMarker(buildID))
}

// violationSummary formats "<N> <label>: <msg1>, <msg2>," with every message
// truncated. Empty messages still contribute a comma.
func violationSummary(label string, vs []danger.Violation) string {
	items := make([]string, 0, len(vs))
	for _, v := range vs {
		items = append(items, truncate(v.Message, summaryMessageLength)+",")
	}
	s := fmt.Sprintf("%d %s: %s", len(vs), label, strings.Join(items, " "))
	return strings.TrimRight(s, " ")
}

// truncate shortens msg to count characters, the last three being "...".
// Strings within the limit are returned unchanged.
func truncate(msg string, count int) string {
	runes := []rune(msg)
	if len(runes) <= count {
		return msg
	}
	if count <= 3 {
		return string(runes[:count])
	}
	return string(runes[:count-3]) + "..."
}

// Truncate shortens msg the way the hidden summary does.
func Truncate(msg string) string {
	return truncate(msg, summaryMessageLength)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func glyph(defaultEmoji string, v danger.Violation) string {
	if v.Icon != "" {
		return v.Icon
	}
	return ":" + defaultEmoji + ":"
}

func markdowns(vs []danger.Violation) string {
	msgs := make([]string, 0, len(vs))
	for _, v := range vs {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "\n\n")
}

func bullets(emoji string, vs []danger.Violation) string {
	var b strings.Builder
	for _, v := range vs {
		fmt.Fprintf(&b, "- %s %s\n", glyph(emoji, v), v.Message)
	}
	return b.String()
}
