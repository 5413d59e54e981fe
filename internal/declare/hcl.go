package declare

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclRoot is the set of top-level items an HCL declaration file may hold.
// Anything else is rejected by the decoder.
type hclRoot struct {
	Version  *string      `hcl:"version,optional"`
	Defaults *hclDefaults `hcl:"defaults,block"`
	Objects  []*hclObject `hcl:"object,block"`
}

type hclDefaults struct {
	Fields hcl.Expression `hcl:"fields,optional"`
	API    *string        `hcl:"api,optional"`
}

type hclObject struct {
	Key       string         `hcl:"key,label"`
	Fields    hcl.Expression `hcl:"fields,optional"`
	Where     *string        `hcl:"where,optional"`
	API       *string        `hcl:"api,optional"`
	UpdateKey *string        `hcl:"update_key,optional"`
}

// ParseHCL parses HCL data into a File. filename is used in diagnostics only.
func ParseHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()

	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL declarations %s: %w", filename, diags)
	}

	var root hclRoot

	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL declarations %s: %w", filename, diags)
	}

	f := &File{}
	if root.Version != nil {
		f.Version = *root.Version
	}

	if root.Defaults != nil {
		fields, err := hclFieldSelectors(root.Defaults.Fields)
		if err != nil {
			return nil, fmt.Errorf("%s: defaults: %w", filename, err)
		}

		api, err := ParseAPI(deref(root.Defaults.API))
		if err != nil {
			return nil, fmt.Errorf("%s: defaults: %w", filename, err)
		}

		f.Defaults = Defaults{Fields: fields, API: api}
	}

	seen := make(map[string]struct{}, len(root.Objects))

	for _, obj := range root.Objects {
		if _, dup := seen[obj.Key]; dup {
			return nil, fmt.Errorf("%s: duplicate object block %q", filename, obj.Key)
		}

		seen[obj.Key] = struct{}{}

		decl, err := obj.declaration()
		if err != nil {
			return nil, fmt.Errorf("%s: object %q: %w", filename, obj.Key, err)
		}

		f.Declarations = append(f.Declarations, decl)
	}

	return f, nil
}

func (o *hclObject) declaration() (Declaration, error) {
	sel, err := ParseObjectSelector(o.Key)
	if err != nil {
		return Declaration{}, err
	}

	fields, err := hclFieldSelectors(o.Fields)
	if err != nil {
		return Declaration{}, err
	}

	api, err := ParseAPI(deref(o.API))
	if err != nil {
		return Declaration{}, err
	}

	return Declaration{
		Object:     sel,
		Fields:     fields,
		Where:      deref(o.Where),
		Unfiltered: o.Where != nil && *o.Where == "",
		API:        api,
		UpdateKey:  deref(o.UpdateKey),
	}, nil
}

// hclFieldSelectors evaluates a fields attribute, which may be a single
// string or a list of strings. Absent attributes evaluate to null.
func hclFieldSelectors(expr hcl.Expression) ([]FieldSelector, error) {
	if expr == nil {
		return nil, nil
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}

	entries, err := ctyStrings(v)
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}

	return ParseFieldSelectors(entries)
}

func ctyStrings(v cty.Value) ([]string, error) {
	if v.IsNull() {
		return nil, nil
	}

	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value must be known")
	}

	ty := v.Type()

	switch {
	case ty.Equals(cty.String):
		return []string{v.AsString()}, nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []string

		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			if ev.IsNull() || !ev.Type().Equals(cty.String) {
				return nil, fmt.Errorf("expected a list of strings, got element of type %s", ev.Type().FriendlyName())
			}

			out = append(out, ev.AsString())
		}

		return out, nil

	default:
		return nil, fmt.Errorf("expected a string or list of strings, got %s", ty.FriendlyName())
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
