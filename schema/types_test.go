package schema

import (
	"errors"
	"testing"
)

func TestNew_FieldOrderAndLookup(t *testing.T) {
	typ, err := New("first",
		Field{Name: "field1", Type: Int()},
		Field{Name: "field2", Type: String()},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if typ.Name() != "first" {
		t.Errorf("expected name first, got %s", typ.Name())
	}
	if typ.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", typ.Len())
	}

	fields := typ.Fields()
	if fields[0].Name != "field1" || fields[1].Name != "field2" {
		t.Errorf("field order not preserved: %v", fields)
	}

	f, ok := typ.Field("field2")
	if !ok {
		t.Fatal("Field(field2) not found")
	}
	if f.Type.Kind != KindString {
		t.Errorf("expected string kind, got %s", f.Type.Kind)
	}

	if typ.Has("nope") {
		t.Error("Has(nope) should be false")
	}
}

func TestNew_DuplicateField(t *testing.T) {
	_, err := New("dup",
		Field{Name: "a", Type: Int()},
		Field{Name: "a", Type: String()},
	)
	var dupErr *DuplicateFieldError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateFieldError, got %v", err)
	}
	if dupErr.Field != "a" {
		t.Errorf("expected field a, got %s", dupErr.Field)
	}
}

func TestNew_EmptyNames(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("empty type name should fail")
	}
	if _, err := New("t", Field{Name: "", Type: Int()}); err == nil {
		t.Error("empty field name should fail")
	}
}

func TestNew_ContainerValidation(t *testing.T) {
	sub := MustNew("sub", Field{Name: "x", Type: Int()})

	tests := []struct {
		name    string
		ft      FieldType
		wantErr bool
	}{
		{"list of int", ListOf(Int()), false},
		{"list of config", ListOf(ConfigOf(sub)), false},
		{"map of string", MapOf(String()), false},
		{"map of config", MapOf(ConfigOf(sub)), false},
		{"tuple of float", TupleOf(KindFloat, 3), false},
		{"list of list", ListOf(ListOf(Int())), true},
		{"tuple of config", TupleOf(KindConfig, 2), true},
		{"tuple arity zero", TupleOf(KindInt, 0), true},
		{"config without type", FieldType{Kind: KindConfig}, true},
		{"list without element", FieldType{Kind: KindList}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("t", Field{Name: "f", Type: tt.ft})
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %s", tt.ft)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_CyclicSchema(t *testing.T) {
	// A cycle cannot be produced through New alone, so splice one together
	// the way a careless hand-built schema could.
	a := &Type{name: "a", index: map[string]int{}}
	b := MustNew("b", Field{Name: "sub", Type: ConfigOf(a)})
	a.fields = []Field{{Name: "sub", Type: ConfigOf(b)}}
	a.index["sub"] = 0

	_, err := New("c", Field{Name: "root", Type: ConfigOf(a)})
	var cycErr *CyclicSchemaError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CyclicSchemaError, got %v", err)
	}
	if len(cycErr.Path) == 0 {
		t.Error("cycle path should name the types involved")
	}
}

func TestNew_SelfCycleThroughContainer(t *testing.T) {
	a := &Type{name: "a", index: map[string]int{}}
	a.fields = []Field{{Name: "children", Type: ListOf(ConfigOf(a))}}
	a.index["children"] = 0

	_, err := New("c", Field{Name: "root", Type: ConfigOf(a)})
	var cycErr *CyclicSchemaError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CyclicSchemaError, got %v", err)
	}
}

func TestFieldType_String(t *testing.T) {
	sub := MustNew("db", Field{Name: "url", Type: String()})

	tests := []struct {
		ft   FieldType
		want string
	}{
		{Int(), "int"},
		{Float(), "float"},
		{String(), "string"},
		{Bool(), "bool"},
		{ListOf(Int()), "list[int]"},
		{TupleOf(KindFloat, 2), "tuple[float,2]"},
		{MapOf(ConfigOf(sub)), "map[config(db)]"},
		{ConfigOf(sub), "config(db)"},
	}
	for _, tt := range tests {
		if got := tt.ft.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
