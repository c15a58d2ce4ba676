package report

import (
	"fmt"

	"dangerreport/internal/danger"
)

func signature(results danger.ResultSet) string {
	meta := results.ResolvedMeta()
	return fmt.Sprintf(`Generated by :%s: <a href="%s">%s</a>`, EmojiFail, meta.RuntimeHref, meta.RuntimeName)
}

// signaturePostfix is the right-aligned footer of an issue body.
func signaturePostfix(results danger.ResultSet, commitRef string) string {
	sig := signature(results)
	if commitRef != "" {
		sig += " against " + commitRef
	}
	return "<p align=\"right\">\n  " + sig + "\n</p>\n"
}
