// Package reportfile provides shared helpers for reading report files out of a
// recipe directory with the absent / present-but-empty / malformed distinction
// every category parser relies on.
package reportfile

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
)

// Report is the raw content of a present report file.
type Report struct {
	// Path is the report location used in error messages.
	Path string
	// Content is the file content.
	Content []byte
}

// Blank reports whether the content is empty or whitespace only.
func (r *Report) Blank() bool {
	return len(bytes.TrimSpace(r.Content)) == 0
}

// Malformed wraps a defect of this report.
func (r *Report) Malformed(format string, args ...any) error {
	return domain.Malformed(r.Path, format, args...)
}

// Read loads name from the recipe directory. A nil report with a nil error means
// the report is absent.
func Read(src strategies.Source, name string) (*Report, error) {
	path := filepath.Join(src.Root, filepath.FromSlash(name))
	content, err := fs.ReadFile(src.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.MalformedReportError{Path: path, Err: err}
	}
	return &Report{Path: path, Content: content}, nil
}

// Object decodes the report as a JSON object and returns its members.
// A blank report decodes to an empty, non-nil map.
func (r *Report) Object() (map[string]json.RawMessage, error) {
	if r.Blank() {
		return map[string]json.RawMessage{}, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(r.Content, &obj); err != nil {
		return nil, &domain.MalformedReportError{Path: r.Path, Err: err}
	}
	if obj == nil {
		return nil, r.Malformed("top-level value is not an object")
	}
	return obj, nil
}

// Array decodes the array member key of obj into elements of T.
// ok is false when obj has no such member.
func Array[T any](r *Report, obj map[string]json.RawMessage, key string) (items []T, ok bool, err error) {
	raw, found := obj[key]
	if !found {
		return nil, false, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, true, r.Malformed("%q: %w", key, err)
	}
	return items, true, nil
}

// Require dereferences a mandatory field of element i of the array key.
func Require[T any](r *Report, key string, i int, field string, v *T) (T, error) {
	if v == nil {
		var zero T
		return zero, r.Malformed("%s[%d]: missing field %q", key, i, field)
	}
	return *v, nil
}

// Optional dereferences an optional field, returning the zero value when unset.
func Optional[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// Elements decodes every element named local found anywhere in the XML report
// into a fresh T and hands it to fn. A blank report yields no elements.
func Elements[T any](r *Report, local string, fn func(*T) error) error {
	if r.Blank() {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(r.Content))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &domain.MalformedReportError{Path: r.Path, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != local {
			continue
		}
		v := new(T)
		if err := dec.DecodeElement(v, &start); err != nil {
			return &domain.MalformedReportError{Path: r.Path, Err: err}
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// Document decodes the whole XML report into v.
func (r *Report) Document(v any) error {
	if err := xml.Unmarshal(r.Content, v); err != nil {
		return &domain.MalformedReportError{Path: r.Path, Err: fmt.Errorf("xml: %w", err)}
	}
	return nil
}
