// Package schema declares configuration shapes: named types made of ordered,
// uniquely named fields. A Type is immutable once built and is the input the
// record package resolves raw values against.
package schema

import (
	"fmt"
	"strings"
)

// Kind is the closed set of type tags a field can declare.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindList
	KindTuple
	KindMap
	KindConfig
)

// String returns the tag name used in error messages and schema files.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindMap:
		return "map"
	case KindConfig:
		return "config"
	default:
		return "invalid"
	}
}

// FieldType is the declared type of a single field: a scalar primitive, a
// container of primitives (or of sub-configs), or a reference to another Type.
type FieldType struct {
	Kind  Kind
	Elem  *FieldType // element type for List and Map
	Arity int        // fixed element count for Tuple
	Ref   *Type      // referenced type for Config
}

// Int declares an integer field.
func Int() FieldType { return FieldType{Kind: KindInt} }

// Float declares a floating-point field.
func Float() FieldType { return FieldType{Kind: KindFloat} }

// String declares a string field.
func String() FieldType { return FieldType{Kind: KindString} }

// Bool declares a boolean field.
func Bool() FieldType { return FieldType{Kind: KindBool} }

// ListOf declares a variable-length sequence. The element type must be a
// scalar primitive or a config reference; containers do not nest.
func ListOf(elem FieldType) FieldType {
	e := elem
	return FieldType{Kind: KindList, Elem: &e}
}

// TupleOf declares a fixed-arity sequence of a scalar primitive kind.
func TupleOf(elem Kind, arity int) FieldType {
	e := FieldType{Kind: elem}
	return FieldType{Kind: KindTuple, Elem: &e, Arity: arity}
}

// MapOf declares a string-keyed map. The element type must be a scalar
// primitive or a config reference.
func MapOf(elem FieldType) FieldType {
	e := elem
	return FieldType{Kind: KindMap, Elem: &e}
}

// ConfigOf declares a sub-configuration field of the given type.
func ConfigOf(t *Type) FieldType {
	return FieldType{Kind: KindConfig, Ref: t}
}

// String renders the type tag, e.g. "list[int]", "tuple[float,3]", "config(db)".
func (ft FieldType) String() string {
	switch ft.Kind {
	case KindList, KindMap:
		if ft.Elem == nil {
			return ft.Kind.String() + "[?]"
		}
		return fmt.Sprintf("%s[%s]", ft.Kind, ft.Elem)
	case KindTuple:
		if ft.Elem == nil {
			return "tuple[?]"
		}
		return fmt.Sprintf("tuple[%s,%d]", ft.Elem, ft.Arity)
	case KindConfig:
		if ft.Ref == nil {
			return "config(?)"
		}
		return "config(" + ft.Ref.Name() + ")"
	default:
		return ft.Kind.String()
	}
}

func (ft FieldType) scalar() bool {
	switch ft.Kind {
	case KindInt, KindFloat, KindString, KindBool:
		return true
	}
	return false
}

// Field is one declared field of a configuration type.
type Field struct {
	Name string
	Type FieldType
}

// Type is a named, ordered collection of fields. Field order is declaration
// order and drives canonical serialization in the record package.
type Type struct {
	name   string
	fields []Field
	index  map[string]int
}

// DuplicateFieldError reports a field name declared twice in one type.
type DuplicateFieldError struct {
	Type  string
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("type %q: duplicate field %q", e.Type, e.Field)
}

// CyclicSchemaError reports a configuration type that contains itself,
// directly or through other types. Path lists the type names along the cycle.
type CyclicSchemaError struct {
	Type string
	Path []string
}

func (e *CyclicSchemaError) Error() string {
	return fmt.Sprintf("type %q: cyclic schema graph: %s", e.Type, strings.Join(e.Path, " -> "))
}

// New builds a Type from an ordered field list. It rejects empty names,
// duplicate names, malformed container declarations, and cyclic type graphs.
func New(name string, fields ...Field) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("type name must not be empty")
	}
	t := &Type{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(t.fields, fields)
	for i, f := range t.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("type %q: field %d has empty name", name, i)
		}
		if _, dup := t.index[f.Name]; dup {
			return nil, &DuplicateFieldError{Type: name, Field: f.Name}
		}
		if err := validateFieldType(name, f.Name, f.Type); err != nil {
			return nil, err
		}
		t.index[f.Name] = i
	}
	if err := checkAcyclic(t, nil, map[*Type]bool{}); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew is New that panics on error, for statically known schemas.
func MustNew(name string, fields ...Field) *Type {
	t, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

func validateFieldType(typeName, fieldName string, ft FieldType) error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("type %q: field %q: %s", typeName, fieldName, fmt.Sprintf(format, args...))
	}
	switch ft.Kind {
	case KindInt, KindFloat, KindString, KindBool:
		return nil
	case KindList, KindMap:
		if ft.Elem == nil {
			return bad("%s requires an element type", ft.Kind)
		}
		if !ft.Elem.scalar() && ft.Elem.Kind != KindConfig {
			return bad("%s element must be a primitive or a config, got %s", ft.Kind, ft.Elem)
		}
		if ft.Elem.Kind == KindConfig && ft.Elem.Ref == nil {
			return bad("%s element declares a config without a type", ft.Kind)
		}
		return nil
	case KindTuple:
		if ft.Elem == nil || !ft.Elem.scalar() {
			return bad("tuple element must be a primitive")
		}
		if ft.Arity < 1 {
			return bad("tuple arity must be at least 1, got %d", ft.Arity)
		}
		return nil
	case KindConfig:
		if ft.Ref == nil {
			return bad("config field declares no type")
		}
		return nil
	default:
		return bad("unknown kind")
	}
}

// checkAcyclic walks config references depth-first. A type seen again on the
// current path means the schema graph contains a cycle.
func checkAcyclic(t *Type, path []string, onPath map[*Type]bool) error {
	if onPath[t] {
		return &CyclicSchemaError{Type: t.name, Path: append(append([]string{}, path...), t.name)}
	}
	onPath[t] = true
	path = append(path, t.name)
	for _, f := range t.fields {
		var ref *Type
		switch {
		case f.Type.Kind == KindConfig:
			ref = f.Type.Ref
		case f.Type.Elem != nil && f.Type.Elem.Kind == KindConfig:
			ref = f.Type.Elem.Ref
		}
		if ref == nil {
			continue
		}
		if err := checkAcyclic(ref, path, onPath); err != nil {
			return err
		}
	}
	delete(onPath, t)
	return nil
}

// Name returns the type's declared name.
func (t *Type) Name() string { return t.name }

// Len returns the number of declared fields.
func (t *Type) Len() int { return len(t.fields) }

// Fields returns the declared fields in declaration order. The slice is a copy.
func (t *Type) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Field returns the declared field with the given name.
func (t *Type) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

// Has reports whether the type declares a field with the given name.
func (t *Type) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}
