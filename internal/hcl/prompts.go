package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/segprep/internal/catalog"
)

// decodePrompts reads every attribute of a prompts block as a catalog entry.
func decodePrompts(body hcl.Body) (catalog.Catalog, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	out := make(catalog.Catalog, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		v, err := promptValue(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid prompt value",
				Detail:   fmt.Sprintf("Prompt %q %s.", name, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		out[name] = v
	}
	return out, diags
}

// promptValue maps a string to a single prompt and a tuple or list of strings
// to prompt variants.
func promptValue(val cty.Value) (catalog.Value, error) {
	if val.IsNull() || !val.IsWhollyKnown() {
		return catalog.Value{}, fmt.Errorf("must have a value")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return catalog.Text(val.AsString()), nil
	case ty.IsTupleType() || ty.IsListType():
		list, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			return catalog.Value{}, fmt.Errorf("must be a list of strings: %w", err)
		}
		if list.LengthInt() == 0 {
			return catalog.Value{}, fmt.Errorf("must list at least one variant")
		}
		variants := make([]string, 0, list.LengthInt())
		for it := list.ElementIterator(); it.Next(); {
			_, v := it.Element()
			if v.IsNull() {
				return catalog.Value{}, fmt.Errorf("cannot contain null variants")
			}
			variants = append(variants, v.AsString())
		}
		return catalog.List(variants...), nil
	default:
		return catalog.Value{}, fmt.Errorf("must be a string or a list of strings, got %s", ty.FriendlyName())
	}
}
