// Package fileio is the file-I/O collaborator for the record package: it
// serializes raw field mappings to disk and back. The format is picked by
// file extension; JSON and YAML are supported.
package fileio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnsupportedFormatError reports a file extension no codec handles.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file extension for %q: use .json, .yaml or .yml", e.Path)
}

// Store reads and writes raw field mappings. The zero value is ready to use;
// it implements record.Loader and record.Saver.
type Store struct{}

// LoadRawMapping reads the mapping serialized at path.
func (Store) LoadRawMapping(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext(path) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}
}

// SaveRawMapping writes the mapping to path, creating parent directories as
// needed.
func (Store) SaveRawMapping(path string, m map[string]any) error {
	var data []byte
	var err error
	switch ext(path) {
	case ".json":
		data, err = json.MarshalIndent(m, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(m)
	default:
		return &UnsupportedFormatError{Path: path}
	}
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// decodeJSON keeps integer and float literals apart: the decoder reads
// numbers as json.Number and normalization maps integral literals to int64,
// the rest to float64. Plain json.Unmarshal would flatten everything to
// float64 and an int field would not survive a round-trip.
func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	normalized, _ := normalize(m).(map[string]any)
	return normalized, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return m, nil
}

func normalize(v any) any {
	switch vv := v.(type) {
	case json.Number:
		s := vv.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := vv.Int64(); err == nil {
				return n
			}
		}
		f, _ := vv.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
