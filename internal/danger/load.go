package danger

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// SchemaError lists every field of a results document that failed schema
// validation.
type SchemaError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid results document: " + strings.Join(parts, "; ")
}

// Load reads a results document from path. A path of "-" reads stdin.
func Load(path string) (ResultSet, error) {
	if strings.TrimSpace(path) == "" {
		return ResultSet{}, errors.New("results path required")
	}
	if path == "-" {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return ResultSet{}, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	rs, err := Decode(f)
	if err != nil {
		return ResultSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Decode reads and validates a results document.
func Decode(r io.Reader) (ResultSet, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ResultSet{}, fmt.Errorf("failed to read results: %w", err)
	}
	if err := Validate(raw); err != nil {
		return ResultSet{}, err
	}

	var rs ResultSet
	if err := json.Unmarshal(raw, &rs); err != nil {
		return ResultSet{}, fmt.Errorf("failed to decode results: %w", err)
	}
	return rs, nil
}

// Validate checks raw JSON against the embedded results schema.
func Validate(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate results: %w", err)
	}
	if res.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Fields: make([]FieldError, 0, len(res.Errors()))}
	for _, desc := range res.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Fields = append(schemaErr.Fields, FieldError{Field: field, Message: desc.Description()})
	}
	return schemaErr
}
