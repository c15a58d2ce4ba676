package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFiles are searched, in order, in the working directory when no
// --config is given.
//
// Example:
//
//	target:
//	  id: lint
//	  repo: acme/widgets
//	output:
//	  console_format: text
//	post:
//	  status: true
//	runtime:
//	  concurrency: 4
//	  timeout: 2m
//	meta:
//	  runtime_name: danger-go
//	  runtime_href: https://example.com/danger-go
var DefaultFiles = []string{
	".dangerreport.yml",
	".dangerreport.yaml",
}

// LoadFile decodes a YAML config file over the values already in c.
// Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// FindFile returns the first of DefaultFiles present in dir, or "".
func FindFile(dir string) string {
	for _, name := range DefaultFiles {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}
