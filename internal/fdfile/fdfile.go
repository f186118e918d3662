// Package fdfile reads functional dependencies from input files. Entries are
// kept as raw field text so they pass through the same validation as
// interactive input.
//
// Two formats are supported. YAML:
//
//	dependencies:
//	  - determinant: A, B
//	    dependent: [C]
//
// and plain text (.fd, .txt), one dependency per line with # comments:
//
//	A, B -> C
package fdfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/tordrt/fdgraph/internal/fd"
)

// Arrow separates determinant and dependent in the text format
const Arrow = "->"

// Field is raw attribute-list text. In YAML it may be a string or a list.
type Field string

func (f *Field) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*f = Field(strings.Join(list, ","))
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("expected a comma-separated string or a list of attributes: %w", err)
	}
	*f = Field(s)
	return nil
}

// Entry is one unvalidated dependency read from a file
type Entry struct {
	Determinant Field `yaml:"determinant"`
	Dependent   Field `yaml:"dependent"`
	Line        int   `yaml:"-"` // text format only
}

type document struct {
	Dependencies []Entry `yaml:"dependencies"`
}

// EntryError reports an entry that could not be added
type EntryError struct {
	Index int // 1-based position in the file
	Line  int
	Err   error
}

func (e *EntryError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Load reads entries from path, choosing the format by extension
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fd", ".txt":
		return ParseText(bytes.NewReader(data))
	default:
		return ParseYAML(data)
	}
}

// ParseYAML parses the YAML format
func ParseYAML(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse dependency file: %w", err)
	}
	return doc.Dependencies, nil
}

// ParseText parses the line format. Lines without an arrow are errors.
func ParseText(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.Index(text, "#"); i >= 0 {
			text = text[:i]
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		det, dep, ok := SplitArrow(text)
		if !ok {
			return nil, fmt.Errorf("line %d: missing %q between determinant and dependent", line, Arrow)
		}
		entries = append(entries, Entry{Determinant: Field(det), Dependent: Field(dep), Line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dependency file: %w", err)
	}
	return entries, nil
}

// SplitArrow splits "A, B -> C" into its raw determinant and dependent text
func SplitArrow(text string) (string, string, bool) {
	return strings.Cut(text, Arrow)
}

// Submitter accepts raw field text, validates it and stores the result
type Submitter interface {
	Submit(determinant, dependent string) (fd.FD, error)
}

// Apply submits every entry in order and returns one *EntryError per
// rejected entry. Accepted entries stay added.
func Apply(s Submitter, entries []Entry) []error {
	var errs []error
	for i, e := range entries {
		if _, err := s.Submit(string(e.Determinant), string(e.Dependent)); err != nil {
			errs = append(errs, &EntryError{Index: i + 1, Line: e.Line, Err: err})
		}
	}
	return errs
}
