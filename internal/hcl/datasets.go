package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/specialistvlad/segprep/internal/bbox"
	"github.com/specialistvlad/segprep/internal/catalog"
	"github.com/specialistvlad/segprep/internal/config"
	"github.com/specialistvlad/segprep/internal/ctxlog"
)

// defaultCatalog is used when a dataset names no catalog.
const defaultCatalog = "object"

// LoadDatasets decodes every dataset block found in paths. Datasets keep file
// order; a name defined twice is an error.
func (l *Loader) LoadDatasets(ctx context.Context, paths ...string) ([]*config.Dataset, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading dataset definitions.", "path_count", len(paths))

	files, names, err := l.parseAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	var datasets []*config.Dataset
	definedIn := make(map[string]string)
	for i, file := range files {
		var root datasetFile
		if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", names[i], diags)
		}

		for _, block := range root.Datasets {
			if prev, dup := definedIn[block.Name]; dup {
				return nil, fmt.Errorf("dataset %q in %s is already defined in %s", block.Name, names[i], prev)
			}
			definedIn[block.Name] = names[i]

			d, diags := translateDataset(block, names[i])
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode HCL file %s: %w", names[i], diags)
			}
			datasets = append(datasets, d)
		}
	}

	if len(datasets) == 0 {
		return nil, fmt.Errorf("no dataset blocks found in %v", paths)
	}
	logger.Debug("Dataset definitions loaded.", "datasets", len(datasets))
	return datasets, nil
}

// translateDataset converts the HCL-specific dataset schema into the agnostic
// model. Semantic errors are reported against the block they come from.
func translateDataset(b *datasetBlock, source string) (*config.Dataset, hcl.Diagnostics) {
	diags := rejectUnknown(b.Remain)
	if diags.HasErrors() {
		return nil, diags
	}
	invalid := func(err error) hcl.Diagnostics {
		return hcl.Diagnostics{blockDiagnostic("Invalid dataset", err, b.Remain)}
	}

	d := config.NewDataset(b.Name, b.Root)
	d.SourceFile = source
	d.ImagesDir = b.ImagesDir
	d.MasksDir = b.MasksDir
	d.AnnsDir = b.AnnsDir
	d.ResolveDirs()

	if len(b.Extensions) > 0 {
		d.Extensions = b.Extensions
	}
	policy, err := bbox.ParsePolicy(b.BBox)
	if err != nil {
		return nil, invalid(fmt.Errorf("dataset %q: %w", b.Name, err))
	}
	d.BBox = policy
	if b.Category != nil {
		d.Category = *b.Category
	}
	d.Seed = b.Seed
	d.IDSeed = b.IDSeed
	if b.Split != nil {
		d.Split = config.Split{Train: b.Split.Train, Val: b.Split.Val, Test: b.Split.Test}
	}

	name := b.Catalog
	if name == "" {
		name = defaultCatalog
	}
	prompts, err := catalog.Builtin(name)
	if err != nil {
		return nil, invalid(fmt.Errorf("dataset %q: %w", b.Name, err))
	}
	if b.Prompts != nil {
		overrides, promptDiags := decodePrompts(b.Prompts.Body)
		if promptDiags.HasErrors() {
			return nil, promptDiags
		}
		prompts = prompts.Merge(overrides)
	}
	d.Prompts = prompts

	if err := d.Validate(); err != nil {
		return nil, invalid(err)
	}
	return d, nil
}
