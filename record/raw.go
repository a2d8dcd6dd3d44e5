// Package record resolves raw configuration values against a declared schema
// type and freezes the result into an immutable, hashable Record.
package record

// rawKind tags the shape of a caller-supplied field value.
type rawKind int

const (
	rawLiteral rawKind = iota
	rawMapping
	rawInstance
	rawPathRef
)

func (k rawKind) String() string {
	switch k {
	case rawLiteral:
		return "literal"
	case rawMapping:
		return "mapping"
	case rawInstance:
		return "config instance"
	case rawPathRef:
		return "file path"
	}
	return "invalid"
}

// Raw is the value supplied for one field before resolution. It is a closed
// union over four shapes: a primitive literal (including sequences and
// string-keyed maps of primitives), a nested field mapping for a
// sub-configuration, an already resolved sub-configuration instance, or a
// path to a serialized sub-configuration file.
type Raw struct {
	kind    rawKind
	lit     any
	mapping map[string]Raw
	rec     *Record
	path    string
}

// Literal wraps a primitive value: int/float/string/bool, a []any sequence,
// or a map[string]any for map-declared fields.
func Literal(v any) Raw {
	return Raw{kind: rawLiteral, lit: v}
}

// Mapping wraps a nested field mapping for a config-declared field.
func Mapping(m map[string]Raw) Raw {
	return Raw{kind: rawMapping, mapping: m}
}

// Instance wraps an already resolved sub-configuration.
func Instance(r *Record) Raw {
	return Raw{kind: rawInstance, rec: r}
}

// PathRef wraps a path to a serialized sub-configuration file, loaded and
// resolved through the file-I/O collaborator during resolution.
func PathRef(path string) Raw {
	return Raw{kind: rawPathRef, path: path}
}
