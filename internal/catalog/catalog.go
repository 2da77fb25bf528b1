// Package catalog models prompt catalogs: the fixed mapping from a prompt key
// (p0..p9) to one or more textual descriptions of a segmentation target.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a single catalog entry. It is either one string or an ordered list
// of string variants; the distinction is preserved in the JSON output.
type Value struct {
	Text     string
	Variants []string
	IsList   bool
}

// Text returns a single-string value.
func Text(s string) Value {
	return Value{Text: s}
}

// List returns a list value. An empty call yields an empty list, not a string.
func List(variants ...string) Value {
	return Value{Variants: append([]string{}, variants...), IsList: true}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsList {
		if v.Variants == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Variants)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var variants []string
		if err := json.Unmarshal(trimmed, &variants); err != nil {
			return err
		}
		*v = List(variants...)
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("prompt value must be a string or a list of strings: %w", err)
	}
	*v = Text(s)
	return nil
}

// Catalog maps prompt keys to values.
type Catalog map[string]Value

// Keys returns the catalog keys in natural order, so p2 sorts before p10.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return naturalLess(keys[i], keys[j]) })
	return keys
}

// Clone returns a deep copy.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for k, v := range c {
		if v.IsList {
			v = List(v.Variants...)
		}
		out[k] = v
	}
	return out
}

// Merge returns a copy of c with every entry of overrides applied on top.
func (c Catalog) Merge(overrides Catalog) Catalog {
	out := c.Clone()
	if out == nil {
		out = Catalog{}
	}
	for k, v := range overrides.Clone() {
		out[k] = v
	}
	return out
}

// MarshalJSON writes keys in natural order.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// naturalLess orders strings by their non-digit prefix and then by the numeric
// value of a trailing run of digits.
func naturalLess(a, b string) bool {
	pa, na, okA := splitNumericSuffix(a)
	pb, nb, okB := splitNumericSuffix(b)
	if okA && okB && pa == pb {
		if na != nb {
			return na < nb
		}
	}
	return a < b
}

func splitNumericSuffix(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}

// DefaultKeys returns the prompt keys p0 through p9.
func DefaultKeys() []string {
	keys := make([]string, 10)
	for i := range keys {
		keys[i] = "p" + strconv.Itoa(i)
	}
	return keys
}

// Names returns the names of the built-in catalogs.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a copy of the named built-in catalog.
func Builtin(name string) (Catalog, error) {
	c, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown prompt catalog %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return c.Clone(), nil
}
