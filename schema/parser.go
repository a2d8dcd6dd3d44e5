package schema

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// typesFile represents the YAML declaration file structure.
type typesFile struct {
	Types map[string][]fieldEntry `yaml:"types"`
}

// fieldEntry represents a single field declaration in YAML. Fields are a
// list, not a mapping, so declaration order survives parsing.
type fieldEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// nameRegex validates type and field names: alphanumeric, hyphens, underscores.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ParseTypes parses a YAML declaration document into named Types.
// Fields may reference other types declared in the same document, in any
// order; unresolvable references and cyclic declarations are errors.
func ParseTypes(content []byte) (map[string]*Type, error) {
	var tf typesFile
	if err := yaml.Unmarshal(content, &tf); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(tf.Types) == 0 {
		return nil, fmt.Errorf("no types declared")
	}

	for name, entries := range tf.Types {
		if !nameRegex.MatchString(name) {
			return nil, fmt.Errorf("type name %q contains invalid characters", name)
		}
		for i, fe := range entries {
			if fe.Name == "" {
				return nil, fmt.Errorf("type %q: field at index %d: missing required field 'name'", name, i)
			}
			if !nameRegex.MatchString(fe.Name) {
				return nil, fmt.Errorf("type %q: field name %q contains invalid characters", name, fe.Name)
			}
			if fe.Type == "" {
				return nil, fmt.Errorf("type %q: field %q: missing required field 'type'", name, fe.Name)
			}
		}
	}

	// Declarations may reference each other in any YAML order, so build in
	// passes: each pass constructs every type whose references already exist.
	built := make(map[string]*Type, len(tf.Types))
	for len(built) < len(tf.Types) {
		progress := false
		for name, entries := range tf.Types {
			if _, done := built[name]; done {
				continue
			}
			fields, ok, err := buildFields(name, entries, built, tf.Types)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue // depends on a type not built yet
			}
			t, err := New(name, fields...)
			if err != nil {
				return nil, err
			}
			built[name] = t
			progress = true
		}
		if !progress {
			// Every leftover references only declared-but-unbuilt types,
			// which means the declaration graph is cyclic.
			var leftover []string
			for name := range tf.Types {
				if _, done := built[name]; !done {
					leftover = append(leftover, name)
				}
			}
			sort.Strings(leftover)
			return nil, &CyclicSchemaError{Type: leftover[0], Path: leftover}
		}
	}
	return built, nil
}

// buildFields resolves one declaration's field list against already built
// types. ok is false when a referenced type exists in the document but has
// not been built yet.
func buildFields(typeName string, entries []fieldEntry, built map[string]*Type, declared map[string][]fieldEntry) ([]Field, bool, error) {
	fields := make([]Field, 0, len(entries))
	for _, fe := range entries {
		ft, ok, err := parseFieldType(typeName, fe.Name, fe.Type, built, declared)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		fields = append(fields, Field{Name: fe.Name, Type: ft})
	}
	return fields, true, nil
}

// parseFieldType parses a type string: a primitive tag, "list[T]",
// "tuple[T,n]", "map[T]", or the name of another declared type.
func parseFieldType(typeName, fieldName, s string, built map[string]*Type, declared map[string][]fieldEntry) (FieldType, bool, error) {
	switch s {
	case "int":
		return Int(), true, nil
	case "float":
		return Float(), true, nil
	case "string":
		return String(), true, nil
	case "bool":
		return Bool(), true, nil
	}

	if inner, ok := containerArg(s, "list"); ok {
		elem, built2, err := parseFieldType(typeName, fieldName, inner, built, declared)
		if err != nil || !built2 {
			return FieldType{}, built2, err
		}
		return ListOf(elem), true, nil
	}
	if inner, ok := containerArg(s, "map"); ok {
		elem, built2, err := parseFieldType(typeName, fieldName, inner, built, declared)
		if err != nil || !built2 {
			return FieldType{}, built2, err
		}
		return MapOf(elem), true, nil
	}
	if inner, ok := containerArg(s, "tuple"); ok {
		parts := strings.Split(inner, ",")
		if len(parts) != 2 {
			return FieldType{}, false, fmt.Errorf("type %q: field %q: tuple declaration %q wants tuple[primitive,arity]", typeName, fieldName, s)
		}
		elem, _, err := parseFieldType(typeName, fieldName, strings.TrimSpace(parts[0]), built, declared)
		if err != nil {
			return FieldType{}, false, err
		}
		arity, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return FieldType{}, false, fmt.Errorf("type %q: field %q: tuple arity %q is not an integer", typeName, fieldName, parts[1])
		}
		return TupleOf(elem.Kind, arity), true, nil
	}

	// A bare name is a reference to another declared type.
	if !nameRegex.MatchString(s) {
		return FieldType{}, false, fmt.Errorf("type %q: field %q: unknown type %q", typeName, fieldName, s)
	}
	if ref, ok := built[s]; ok {
		return ConfigOf(ref), true, nil
	}
	if _, exists := declared[s]; exists {
		return FieldType{}, false, nil // declared later in the document
	}
	return FieldType{}, false, fmt.Errorf("type %q: field %q: unknown type %q", typeName, fieldName, s)
}

// containerArg extracts X from "prefix[X]", or reports no match.
func containerArg(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix+"[") && strings.HasSuffix(s, "]") {
		return s[len(prefix)+1 : len(s)-1], true
	}
	return "", false
}

// LoadTypes reads and parses a type declaration file from the given path.
func LoadTypes(path string) (map[string]*Type, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read type declarations: %w", err)
	}
	return ParseTypes(content)
}
