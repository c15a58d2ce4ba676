package output

import (
	"fmt"
	"io"
)

const documentSeparator = "\n---\n\n"

// markdownWriter writes document bodies verbatim, separating consecutive
// documents with a horizontal rule.
type markdownWriter struct {
	w       io.Writer
	written int
}

func (m *markdownWriter) write(d Document) error {
	if m.written > 0 {
		if _, err := io.WriteString(m.w, documentSeparator); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(m.w, d.Body); err != nil {
		return fmt.Errorf("write %s document: %w", d.Kind, err)
	}
	m.written++
	return nil
}
