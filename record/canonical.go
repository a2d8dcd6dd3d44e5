package record

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
)

// Canonical produces the deterministic byte-string form of the record's
// values: a compact JSON object with keys in the type's declared field order,
// integers without decimal points, floats in shortest round-trip form, map
// keys sorted, and sub-records embedded recursively as objects (never as
// their hash), so the digest stays sensitive to substructure.
func (r *Record) Canonical() []byte {
	return r.appendCanonical(nil)
}

func (r *Record) appendCanonical(b []byte) []byte {
	b = append(b, '{')
	for i, f := range r.typ.Fields() {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendCanonicalString(b, f.Name)
		b = append(b, ':')
		b = appendCanonicalValue(b, r.values[f.Name])
	}
	return append(b, '}')
}

func appendCanonicalValue(b []byte, v any) []byte {
	switch vv := v.(type) {
	case int64:
		return strconv.AppendInt(b, vv, 10)
	case float64:
		// Shortest representation that parses back to the same float64.
		return strconv.AppendFloat(b, vv, 'g', -1, 64)
	case string:
		return appendCanonicalString(b, vv)
	case bool:
		return strconv.AppendBool(b, vv)
	case []any:
		b = append(b, '[')
		for i, e := range vv {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendCanonicalValue(b, e)
		}
		return append(b, ']')
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b = append(b, '{')
		for i, k := range keys {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendCanonicalString(b, k)
			b = append(b, ':')
			b = appendCanonicalValue(b, vv[k])
		}
		return append(b, '}')
	case *Record:
		return vv.appendCanonical(b)
	default:
		// Resolution guarantees the cases above; this keeps the encoder
		// total if it is ever handed an unresolved value.
		raw, _ := json.Marshal(vv)
		return append(b, raw...)
	}
}

func appendCanonicalString(b []byte, s string) []byte {
	enc, _ := json.Marshal(s)
	return append(b, enc...)
}

// Hash returns the record's content digest: "sha256:" plus the hex SHA-256 of
// Canonical(). It is computed on first access and memoized, which is safe
// only because the record is frozen first.
func (r *Record) Hash() string {
	r.hashOnce.Do(func() {
		sum := sha256.Sum256(r.Canonical())
		r.hash = "sha256:" + hex.EncodeToString(sum[:])
	})
	return r.hash
}
