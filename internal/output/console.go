package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleSink writes documents to stdout (or any writer).
//
// Formats:
//   - text: document bodies verbatim, events ignored
//   - json: aggregates documents and writes a single JSON array on Close
//   - ndjson: streams Event values (one JSON object per line)
type ConsoleSink struct {
	writer    io.Writer
	format    string
	mu        sync.Mutex
	documents []Document // For JSON array output
	md        markdownWriter
}

func NewConsoleSink(w io.Writer, format string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{
		writer: w,
		format: format,
		md:     markdownWriter{w: w},
	}
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	switch s.format {
	case "json":
		d, ok := v.(Document)
		if !ok {
			// Ignore lifecycle events in JSON console mode.
			return nil
		}
		s.documents = append(s.documents, d)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case Document:
			if err := encoder.Encode(eventFromDocument(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		d, ok := v.(Document)
		if !ok {
			return nil
		}
		if err := s.md.write(d); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		docs := s.documents
		if docs == nil {
			docs = []Document{}
		}
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(docs); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
