package record

import (
	"fmt"
	"math"
	"sort"

	"configkit/schema"
)

// Loader is the file-I/O collaborator side that reads a serialized raw field
// mapping. The fileio package provides the standard implementation.
type Loader interface {
	LoadRawMapping(path string) (map[string]any, error)
}

// Saver is the file-I/O collaborator side that writes a raw field mapping.
type Saver interface {
	SaveRawMapping(path string, m map[string]any) error
}

// Resolve turns a raw field mapping into fully typed values for t. Every
// declared field must be supplied exactly once; any failure aborts the whole
// call, so a half-resolved mapping is never returned. Path-valued
// sub-configs are loaded through loader, the only side effect.
func Resolve(t *schema.Type, raw map[string]Raw, loader Loader) (map[string]any, error) {
	// Reject unknown keys first, in sorted order so the reported field is
	// deterministic regardless of map iteration.
	extra := make([]string, 0, len(raw))
	for name := range raw {
		if !t.Has(name) {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, &UnknownFieldError{Type: t.Name(), Field: extra[0]}
	}

	values := make(map[string]any, t.Len())
	for _, f := range t.Fields() {
		rv, ok := raw[f.Name]
		if !ok {
			return nil, &MissingFieldError{Type: t.Name(), Field: f.Name}
		}
		v, err := resolveField(t, f, rv, loader)
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return values, nil
}

// resolveField dispatches on declared type x raw shape.
func resolveField(t *schema.Type, f schema.Field, rv Raw, loader Loader) (any, error) {
	if f.Type.Kind == schema.KindConfig {
		return resolveSub(t, f.Name, f.Type.Ref, rv, loader)
	}

	// Every non-config field takes a literal; structural shapes are never
	// accepted for primitive or container fields.
	if rv.kind != rawLiteral {
		return nil, &TypeMismatchError{
			Type: t.Name(), Field: f.Name,
			Want: f.Type.String(), Got: rv.kind.String(),
		}
	}

	switch f.Type.Kind {
	case schema.KindList:
		return resolveSequence(t, f, rv.lit, -1, loader)
	case schema.KindTuple:
		return resolveSequence(t, f, rv.lit, f.Type.Arity, loader)
	case schema.KindMap:
		return resolveMapValue(t, f, rv.lit, loader)
	default:
		return coerceScalar(t.Name(), f.Name, f.Type, rv.lit)
	}
}

// resolveSub handles a config-declared field: an instance is accepted only
// when its runtime type is the declared type, a mapping resolves recursively,
// and a path loads through the collaborator and then resolves like a mapping.
func resolveSub(t *schema.Type, field string, ref *schema.Type, rv Raw, loader Loader) (*Record, error) {
	switch rv.kind {
	case rawInstance:
		if rv.rec == nil || rv.rec.typ != ref {
			got := "config instance of nil type"
			if rv.rec != nil {
				got = "config(" + rv.rec.typ.Name() + ")"
			}
			return nil, &TypeMismatchError{
				Type: t.Name(), Field: field,
				Want: "config(" + ref.Name() + ")", Got: got,
			}
		}
		return rv.rec, nil
	case rawMapping:
		values, err := Resolve(ref, rv.mapping, loader)
		if err != nil {
			return nil, err
		}
		return newRecord(ref, values), nil
	case rawPathRef:
		if loader == nil {
			return nil, &SubConfigLoadError{
				Field: field, Path: rv.path,
				Err: fmt.Errorf("no loader configured"),
			}
		}
		m, err := loader.LoadRawMapping(rv.path)
		if err != nil {
			return nil, &SubConfigLoadError{Field: field, Path: rv.path, Err: err}
		}
		values, err := Resolve(ref, fromWire(ref, m), loader)
		if err != nil {
			return nil, err
		}
		return newRecord(ref, values), nil
	default:
		return nil, &TypeMismatchError{
			Type: t.Name(), Field: field,
			Want: "config(" + ref.Name() + ")", Got: rv.kind.String(),
		}
	}
}

// resolveSequence coerces a []any literal element-wise. arity < 0 means
// variable length; otherwise the element count must match exactly.
func resolveSequence(t *schema.Type, f schema.Field, v any, arity int, loader Loader) ([]any, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, &TypeMismatchError{
			Type: t.Name(), Field: f.Name,
			Want: f.Type.String(), Got: goKind(v),
		}
	}
	if arity >= 0 && len(seq) != arity {
		return nil, &TypeMismatchError{
			Type: t.Name(), Field: f.Name,
			Want: f.Type.String(), Got: fmt.Sprintf("sequence of %d elements", len(seq)),
		}
	}
	out := make([]any, len(seq))
	for i, elem := range seq {
		rv, err := resolveElement(t, f, elem, loader)
		if err != nil {
			return nil, err
		}
		out[i] = rv
	}
	return out, nil
}

// resolveMapValue coerces a map[string]any literal element-wise.
func resolveMapValue(t *schema.Type, f schema.Field, v any, loader Loader) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{
			Type: t.Name(), Field: f.Name,
			Want: f.Type.String(), Got: goKind(v),
		}
	}
	out := make(map[string]any, len(m))
	for k, elem := range m {
		rv, err := resolveElement(t, f, elem, loader)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

// resolveElement resolves one container element. Config elements arrive in
// wire shape: a nested map, a path string, or an existing *Record.
func resolveElement(t *schema.Type, f schema.Field, elem any, loader Loader) (any, error) {
	et := *f.Type.Elem
	if et.Kind != schema.KindConfig {
		return coerceScalar(t.Name(), f.Name, et, elem)
	}
	switch ev := elem.(type) {
	case map[string]any:
		return resolveSub(t, f.Name, et.Ref, Mapping(fromWire(et.Ref, ev)), loader)
	case string:
		return resolveSub(t, f.Name, et.Ref, PathRef(ev), loader)
	case *Record:
		return resolveSub(t, f.Name, et.Ref, Instance(ev), loader)
	default:
		return nil, &TypeMismatchError{
			Type: t.Name(), Field: f.Name,
			Want: et.String(), Got: goKind(elem),
		}
	}
}

// coerceScalar coerces a literal to the declared primitive kind. Integers
// widen to float; nothing else converts across kinds.
func coerceScalar(typeName, field string, want schema.FieldType, v any) (any, error) {
	switch want.Kind {
	case schema.KindInt:
		if n, ok := asInt(v); ok {
			return n, nil
		}
	case schema.KindFloat:
		switch f := v.(type) {
		case float64:
			return f, nil
		case float32:
			return float64(f), nil
		}
		if n, ok := asInt(v); ok {
			return float64(n), nil
		}
	case schema.KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case schema.KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, &TypeMismatchError{
		Type: typeName, Field: field,
		Want: want.String(), Got: goKind(v),
	}
}

// asInt normalizes any Go integer width to int64.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}

// goKind names a raw literal's dynamic type for error messages.
func goKind(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case string:
		return "string"
	case float32, float64:
		return "float"
	case []any:
		return "sequence"
	case map[string]any:
		return "mapping"
	case *Record:
		return "config instance"
	}
	if _, ok := asInt(v); ok {
		return "int"
	}
	return fmt.Sprintf("%T", v)
}
