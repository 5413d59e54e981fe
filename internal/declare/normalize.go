package declare

import (
	"fmt"
	"slices"

	"dataplan/internal/diagnostic"
)

// DefaultFields is used by declarations that name no fields when the file
// sets no default either.
var DefaultFields = []FieldSelector{FieldGroupSelector{Group: FieldsAll}}

// Normalize merges defaults into every declaration and rejects duplicate
// object keys, duplicate field entries and keys that make no sense for a
// group. Built-in row filters are merged into literal declarations that set
// none; an explicit empty where keeps the object unfiltered. Normalizing a normalized slice returns it unchanged.
func Normalize(f *File) ([]Declaration, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	defaultFields := f.Defaults.Fields
	if len(defaultFields) == 0 {
		defaultFields = DefaultFields
	}

	seen := make(map[string]struct{}, len(f.Declarations))
	out := make([]Declaration, 0, len(f.Declarations))

	for _, d := range f.Declarations {
		if d.Object == nil {
			diags.AddError("declaration_without_object", "declaration has no object selector", "", "")
			continue
		}

		key := d.Key()
		if _, dup := seen[key]; dup {
			diags.AddError("duplicate_declaration", fmt.Sprintf("object key %q is declared more than once", key), key, "")
			continue
		}

		seen[key] = struct{}{}

		if len(d.Fields) == 0 {
			d.Fields = slices.Clone(defaultFields)
		} else {
			d.Fields = slices.Clone(d.Fields)
		}

		if dupField, ok := firstDuplicate(d.Fields); ok {
			diags.AddError("duplicate_field", fmt.Sprintf("field entry %q is listed more than once", dupField), key, dupField)
			continue
		}

		if d.API == APIDefault {
			d.API = f.Defaults.API
		}

		if _, err := ParseAPI(string(d.API)); err != nil {
			diags.AddError("invalid_api", err.Error(), key, "")
			continue
		}

		if d.IsGroup() && d.UpdateKey != "" {
			diags.AddError("update_key_on_group",
				"update_key names a field of one object and cannot be set on a group selector", key, d.UpdateKey)

			continue
		}

		if lit, ok := d.Object.(LiteralObject); ok && d.Where == "" && !d.Unfiltered {
			if w, ok := DefaultWhere(lit.Name); ok {
				d.Where = w
			}
		}

		out = append(out, d)
	}

	return out, diags
}

func firstDuplicate(sels []FieldSelector) (string, bool) {
	seen := make(map[string]struct{}, len(sels))

	for _, s := range sels {
		k := s.String()
		if _, dup := seen[k]; dup {
			return k, true
		}

		seen[k] = struct{}{}
	}

	return "", false
}

// Load reads, parses and normalizes a declaration file in one step,
// returning configuration errors as a single error.
func Load(path string) ([]Declaration, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	decls, diags := Normalize(f)
	if err := diags.Error(); err != nil {
		return nil, fmt.Errorf("invalid declarations in %s: %w", path, err)
	}

	return decls, nil
}
