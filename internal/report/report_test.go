package report

import (
	"strings"
	"testing"

	"dangerreport/internal/danger"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBody(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestRenderIssueBody_EmptyResults(t *testing.T) {
	body := RenderIssueBody("1", danger.ResultSet{}, "")

	assert.True(t, strings.HasPrefix(body, "<!--\n"))
	assert.Contains(t, body, "  0 failures:\n")
	assert.Contains(t, body, "  0 warnings:\n")
	assert.Contains(t, body, "DangerID: danger-id-1;")
	assert.NotContains(t, body, "messages")
	assert.NotContains(t, body, "markdown notice")
	assert.NotContains(t, body, "<table>")
	assert.Contains(t, body, `Generated by :no_entry_sign: <a href="https://danger.systems/js">dangerJS</a>`)
}

func TestRenderInlineBody_EmptyResults(t *testing.T) {
	body := RenderInlineBody("1", danger.ResultSet{}, "a.ts", 3)

	assert.Contains(t, body, "DangerID: danger-id-1;\n  File: a.ts;\n  Line: 3;\n-->\n")
	assert.NotContains(t, body, "- :")
	assert.NotContains(t, body, "Generated by")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "short", in: "short", want: "short"},
		{name: "exactly limit", in: "12345678901234567890", want: "12345678901234567890"},
		{name: "long", in: "this message is way too long", want: "this message is w..."},
		{name: "multibyte", in: "ééééééééééééééééééééé", want: "ééééééééééééééééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, 20)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, truncate(got, 20), "truncate must be idempotent")
			if len([]rune(tt.in)) > 20 {
				assert.Len(t, []rune(got), 20)
				assert.True(t, strings.HasSuffix(got, "..."))
			}
		})
	}
}

func TestSummaryLines(t *testing.T) {
	rs := danger.ResultSet{
		Fails:     []danger.Violation{{Message: "first"}, {Message: "this message is way too long"}},
		Warnings:  []danger.Violation{{Message: "careful"}},
		Messages:  []danger.Violation{{Message: "fyi"}},
		Markdowns: []danger.Violation{{Message: "# one"}, {Message: "# two"}},
	}

	got := summaryLines("42", rs)
	want := []string{
		"2 failures: first, this message is w...,",
		"1 warning: careful,",
		"1 message",
		"2 markdown notices",
		"DangerID: danger-id-42;",
	}
	assert.Equal(t, want, got)
}

func TestRenderIssueBody_EmptyMessageHidesTableButIsCounted(t *testing.T) {
	rs := danger.ResultSet{Fails: []danger.Violation{{Message: ""}}}

	body := RenderIssueBody("42", rs, "")

	assert.Contains(t, body, "1 failure: ,")
	assert.NotContains(t, body, "<table>")
	assert.Empty(t, table("Fails", EmojiFail, rs.Fails))
}

func TestTable_SkipsEmptyMessageRows(t *testing.T) {
	vs := []danger.Violation{{Message: ""}, {Message: "real"}}

	doc := parseBody(t, table("Warnings", EmojiWarning, vs))

	assert.Equal(t, 1, doc.Find("tbody tr").Length())
	assert.Equal(t, "Warnings", doc.Find("th[data-danger-table]").Text())
}

func TestRenderIssueBody_Tables(t *testing.T) {
	rs := danger.ResultSet{
		Fails: []danger.Violation{
			{Message: "bad", File: "a.ts", Line: 3},
			{Message: "bad"},
		},
		Warnings: []danger.Violation{{Message: "hmm", Icon: ":x:"}},
	}

	doc := parseBody(t, RenderIssueBody("42", rs, ""))

	tables := doc.Find("table")
	require.Equal(t, 2, tables.Length())
	assert.Equal(t, "Fails", tables.Eq(0).Find("th").Eq(1).Text())
	assert.Equal(t, "Warnings", tables.Eq(1).Find("th").Eq(1).Text())

	fails := tables.Eq(0).Find("tbody tr")
	require.Equal(t, 2, fails.Length())
	assert.Equal(t, ":no_entry_sign:", fails.Eq(0).Find("td").Eq(0).Text())
	assert.True(t, strings.HasPrefix(strings.TrimSpace(fails.Eq(0).Find("td").Eq(1).Text()), "**a.ts#L3** - bad"))
	assert.Equal(t, "bad", fails.Eq(1).Find("td").Eq(1).Text())

	warnings := tables.Eq(1).Find("tbody tr")
	require.Equal(t, 1, warnings.Length())
	assert.Equal(t, ":x:", warnings.Eq(0).Find("td").Eq(0).Text())
}

func TestRenderIssueBody_MessagesTableUsesBook(t *testing.T) {
	rs := danger.ResultSet{Messages: []danger.Violation{{Message: "fyi"}}}

	body := RenderIssueBody("42", rs, "")

	assert.Contains(t, body, "<td>:book:</td>")
	assert.Contains(t, body, `data-danger-table="true">Messages</th>`)
}

func TestRow_MarkdownWrapping(t *testing.T) {
	msg := "use `x` instead"
	rs := danger.ResultSet{Messages: []danger.Violation{{Message: msg}}}

	issue := RenderIssueBody("1", rs, "")
	inline := RenderInlineBody("1", rs, "a.ts", 3)

	assert.Contains(t, issue, "<td>\n\n  use `x` instead\n  </td>")
	assert.Contains(t, inline, "- :book: use `x` instead\n")
	assert.NotContains(t, inline, "\n\n  use")

	plain := row(EmojiMessage, danger.Violation{Message: "plain"})
	assert.Contains(t, plain, "<td>plain</td>")
}

func TestRenderInlineBody_Bullets(t *testing.T) {
	rs := danger.ResultSet{
		Fails:     []danger.Violation{{Message: "bad", File: "a.ts", Line: 3}},
		Warnings:  []danger.Violation{{Message: "hmm", File: "a.ts", Line: 3}},
		Messages:  []danger.Violation{{Message: "fyi", File: "a.ts", Line: 3, Icon: ":bulb:"}},
		Markdowns: []danger.Violation{{Message: "extra notes"}},
	}

	body := RenderInlineBody("7", rs, "a.ts", 3)

	assert.Contains(t, body, "- :no_entry_sign: bad\n- :warning: hmm\n- :bulb: fyi\n")
	assert.NotContains(t, body, "**a.ts#L3**")
	assert.NotContains(t, body, "<table>")
	assert.True(t, strings.HasSuffix(body, "extra notes"))
}

func TestRenderIssueBody_DangerIDAndSignature(t *testing.T) {
	rs := danger.ResultSet{Fails: []danger.Violation{{Message: "bad"}}}

	body := RenderIssueBody("42", rs, "")
	assert.Contains(t, body, "DangerID: danger-id-42;")
	assert.NotContains(t, body, "against")
	assert.True(t, strings.HasSuffix(body, "dangerJS</a>\n</p>\n"))

	withRef := RenderIssueBody("42", rs, "abc123")
	assert.Contains(t, withRef, "</a> against abc123\n</p>\n")
}

func TestRenderIssueBody_Meta(t *testing.T) {
	tests := []struct {
		name string
		meta *danger.Meta
		want string
	}{
		{name: "absent", meta: nil, want: `<a href="https://danger.systems/js">dangerJS</a>`},
		{name: "custom", meta: &danger.Meta{RuntimeName: "danger-go", RuntimeHref: "https://example.com/danger"}, want: `<a href="https://example.com/danger">danger-go</a>`},
		{name: "malformed", meta: &danger.Meta{RuntimeName: "half"}, want: `<a href="https://danger.systems/js">dangerJS</a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := RenderIssueBody("1", danger.ResultSet{Meta: tt.meta}, "")
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestRenderIssueBody_MarkdownsPassthrough(t *testing.T) {
	rs := danger.ResultSet{Markdowns: []danger.Violation{{Message: "## Coverage"}, {Message: "| a | b |"}}}

	body := RenderIssueBody("1", rs, "")

	assert.Contains(t, body, "\n## Coverage\n\n| a | b |\n")
	assert.NotContains(t, body, "<table>")
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	meta := &danger.Meta{RuntimeName: "x", RuntimeHref: "y"}
	rs := danger.ResultSet{
		Fails:     []danger.Violation{{Message: "use `x`", File: "a.ts", Line: 1}},
		Warnings:  []danger.Violation{{Message: ""}},
		Messages:  []danger.Violation{{Message: "m"}},
		Markdowns: []danger.Violation{{Message: "md"}},
		Meta:      meta,
	}
	snapshot := danger.ResultSet{
		Fails:     append([]danger.Violation(nil), rs.Fails...),
		Warnings:  append([]danger.Violation(nil), rs.Warnings...),
		Messages:  append([]danger.Violation(nil), rs.Messages...),
		Markdowns: append([]danger.Violation(nil), rs.Markdowns...),
		Meta:      &danger.Meta{RuntimeName: "x", RuntimeHref: "y"},
	}

	_ = RenderIssueBody("1", rs, "sha")
	_ = RenderInlineBody("1", rs, "a.ts", 1)

	assert.Equal(t, snapshot, rs)
}

func TestRender_Deterministic(t *testing.T) {
	rs := danger.ResultSet{
		Fails:    []danger.Violation{{Message: "bad", File: "a.ts", Line: 3}},
		Warnings: []danger.Violation{{Message: "hmm"}},
	}
	assert.Equal(t, RenderIssueBody("1", rs, "sha"), RenderIssueBody("1", rs, "sha"))
	assert.Equal(t, RenderInlineBody("1", rs, "a.ts", 3), RenderInlineBody("1", rs, "a.ts", 3))
}
