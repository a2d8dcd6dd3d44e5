package record

import (
	"fmt"
	"sync"

	"configkit/schema"
)

// Record is a fully resolved, immutable configuration instance. Every
// declared field of its type holds exactly one resolved value; sub-config
// fields hold owned *Record values. Records are safe for concurrent readers
// because nothing mutates them after construction.
type Record struct {
	typ    *schema.Type
	values map[string]any

	hashOnce sync.Once
	hash     string
}

func newRecord(t *schema.Type, values map[string]any) *Record {
	return &Record{typ: t, values: values}
}

// Construct resolves raw into a new Record of type t. Path-valued sub-config
// fields are loaded through loader. Resolution is all-or-nothing: on error no
// record exists.
func Construct(t *schema.Type, raw map[string]Raw, loader Loader) (*Record, error) {
	values, err := Resolve(t, raw, loader)
	if err != nil {
		return nil, err
	}
	return newRecord(t, values), nil
}

// ConstructLocal resolves raw without a file-I/O collaborator. Any path
// reference in the input fails with SubConfigLoadError.
func ConstructLocal(t *schema.Type, raw map[string]Raw) (*Record, error) {
	return Construct(t, raw, nil)
}

// Type returns the record's configuration type.
func (r *Record) Type() *schema.Type { return r.typ }

// Get returns the resolved value of a field. Sub-config fields return the
// owned *Record; sequence and map values are copied out so no caller holds a
// mutable reference into the record.
func (r *Record) Get(name string) (any, error) {
	f, ok := r.typ.Field(name)
	if !ok {
		return nil, &UnknownFieldError{Type: r.typ.Name(), Field: name}
	}
	v := r.values[f.Name]
	switch vv := v.(type) {
	case []any:
		out := make([]any, len(vv))
		copy(out, vv)
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			out[k] = e
		}
		return out, nil
	default:
		return v, nil
	}
}

// Sub returns a sub-configuration field as a Record.
func (r *Record) Sub(name string) (*Record, error) {
	v, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*Record)
	if !ok {
		f, _ := r.typ.Field(name)
		return nil, &TypeMismatchError{
			Type: r.typ.Name(), Field: name,
			Want: "config", Got: f.Type.String(),
		}
	}
	return sub, nil
}

// Set always fails: records are frozen at construction.
func (r *Record) Set(name string, _ any) error {
	return &ImmutableRecordError{Type: r.typ.Name(), Field: name}
}

// Save serializes the record's raw field representation through the file-I/O
// collaborator. Sub-configs are written inline as nested mappings, so a saved
// file is self-contained and reloads to an identical hash.
func (r *Record) Save(path string, saver Saver) error {
	if saver == nil {
		return fmt.Errorf("save %s: no saver configured", path)
	}
	return saver.SaveRawMapping(path, r.wireMapping())
}

// Load reads a raw field mapping from path and runs full construction, so
// any sub-config paths embedded in the file re-resolve now rather than being
// trusted stale.
func Load(t *schema.Type, path string, store Loader) (*Record, error) {
	if store == nil {
		return nil, fmt.Errorf("load %s: no loader configured", path)
	}
	m, err := store.LoadRawMapping(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Construct(t, fromWire(t, m), store)
}

// wireMapping converts resolved values back to the plain raw representation
// the collaborator serializes.
func (r *Record) wireMapping() map[string]any {
	m := make(map[string]any, len(r.values))
	for _, f := range r.typ.Fields() {
		m[f.Name] = wireValue(r.values[f.Name])
	}
	return m
}

func wireValue(v any) any {
	switch vv := v.(type) {
	case *Record:
		return vv.wireMapping()
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = wireValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			out[k] = wireValue(e)
		}
		return out
	default:
		return v
	}
}

// fromWire classifies a loaded plain mapping into raw values using the
// declared type: under a config-declared field a string is a path reference
// and a map is a nested mapping; everything else stays a literal. Keys with
// no declared field stay literals so resolution reports them as unknown.
func fromWire(t *schema.Type, m map[string]any) map[string]Raw {
	raw := make(map[string]Raw, len(m))
	for k, v := range m {
		f, ok := t.Field(k)
		if ok && f.Type.Kind == schema.KindConfig {
			switch vv := v.(type) {
			case string:
				raw[k] = PathRef(vv)
				continue
			case map[string]any:
				raw[k] = Mapping(fromWire(f.Type.Ref, vv))
				continue
			}
		}
		raw[k] = Literal(v)
	}
	return raw
}
