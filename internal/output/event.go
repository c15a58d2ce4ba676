package output

// Document kinds.
const (
	KindIssue  = "issue"
	KindInline = "inline"
)

// Document is one rendered comment body.
type Document struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
	Body string `json:"body"`
}

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - document
// - comment.posted
// - run.finished
//
// JSON mode remains an aggregate of Document values.
type Event struct {
	Type string `json:"type"`
	*Document
	Action    string `json:"action,omitempty"`
	URL       string `json:"url,omitempty"`
	Documents int    `json:"documents,omitempty"`
	ExitCode  int    `json:"exit_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

func eventFromDocument(d Document) Event {
	return Event{Type: "document", Document: &d}
}
