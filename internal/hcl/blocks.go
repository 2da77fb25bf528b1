package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed per file.",
				Subject:  &block.DefRange,
			})
			continue
		}
		found = block
	}

	return found, diags
}

// rejectUnknown reports every attribute or block left in body after decoding.
func rejectUnknown(body hcl.Body) hcl.Diagnostics {
	if body == nil {
		return nil
	}
	attrs, diags := body.JustAttributes()
	for _, attr := range attrs {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported argument",
			Detail:   "An argument named \"" + attr.Name + "\" is not expected here.",
			Subject:  &attr.NameRange,
		})
	}
	return diags
}

// blockDiagnostic reports err against the block whose remaining body is body.
func blockDiagnostic(summary string, err error, body hcl.Body) *hcl.Diagnostic {
	var subject hcl.Range
	if body != nil {
		subject = body.MissingItemRange()
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   err.Error(),
		Subject:  &subject,
	}
}
