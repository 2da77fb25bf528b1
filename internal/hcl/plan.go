package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/specialistvlad/segprep/internal/catalog"
	"github.com/specialistvlad/segprep/internal/config"
	"github.com/specialistvlad/segprep/internal/ctxlog"
)

// planRemainSchema picks the trainer block out of a plan file's remaining
// body, along with the dataset blocks of dataset files sharing its directory.
var planRemainSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "trainer"},
		{Type: "dataset", LabelNames: []string{"name"}},
	},
}

// LoadPlan merges every plan file found in paths into one plan. Lists are
// appended, scalars and the command are overwritten by later files, and env
// maps are merged key by key.
func (l *Loader) LoadPlan(ctx context.Context, paths ...string) (*config.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading experiment plan.", "path_count", len(paths))

	files, names, err := l.parseAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	plan := config.NewPlan()
	for i, file := range files {
		if err := mergePlanFile(plan, file.Body); err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", names[i], err)
		}
		plan.SourceFiles = append(plan.SourceFiles, names[i])
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	logger.Debug("Experiment plan loaded.",
		"models", len(plan.Models),
		"datasets", len(plan.Datasets),
		"experiments", plan.ExperimentCount(),
	)
	return plan, nil
}

func mergePlanFile(plan *config.Plan, body hcl.Body) error {
	var root planFile
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return diags
	}

	plan.Models = append(plan.Models, root.ModelNames...)
	plan.Tags = append(plan.Tags, root.Tags...)
	if root.Debug != nil {
		plan.Debug = *root.Debug
	}
	if root.Workdir != nil {
		plan.Workdir = *root.Workdir
	}
	for k, v := range root.Env {
		plan.Env[k] = v
	}
	if len(root.Command) > 0 {
		plan.Command = root.Command
	}

	for _, m := range root.Models {
		if _, dup := plan.ModelParams[m.Name]; dup {
			return fmt.Errorf("model %q is defined more than once", m.Name)
		}
		params, diags := translateModel(m)
		if diags.HasErrors() {
			return diags
		}
		plan.ModelParams[m.Name] = params
	}

	for _, ds := range root.Datasets {
		prompts := ds.Prompts
		if prompts == nil {
			prompts = catalog.DefaultKeys()
		}
		plan.Datasets = append(plan.Datasets, config.DatasetPrompts{Name: ds.Name, Prompts: prompts})
	}

	content, rest, diags := root.Remain.PartialContent(planRemainSchema)
	if diags.HasErrors() {
		return diags
	}
	block, diags := FindUniqueBlock(content.Blocks, "trainer")
	if diags.HasErrors() {
		return diags
	}
	if block != nil {
		var t trainerBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &t); diags.HasErrors() {
			return diags
		}
		overlayTrainer(&plan.Trainer, &t)
	}

	if diags := rejectUnknown(rest); diags.HasErrors() {
		return diags
	}
	return nil
}

func overlayTrainer(dst *config.Trainer, t *trainerBlock) {
	if t.Accelerator != nil {
		dst.Accelerator = *t.Accelerator
	}
	if t.Precision != nil {
		dst.Precision = *t.Precision
	}
	if t.Devices != nil {
		dst.Devices = *t.Devices
	}
	if t.Logger != nil {
		dst.Logger = *t.Logger
	}
}

// translateModel converts a model block into hyperparameters, reporting
// unusable values against the block.
func translateModel(m *modelBlock) (config.ModelParams, hcl.Diagnostics) {
	if diags := rejectUnknown(m.Remain); diags.HasErrors() {
		return config.ModelParams{}, diags
	}
	params := config.ModelParams{BatchSize: m.BatchSize, LearningRate: m.LearningRate}
	if err := params.Validate(); err != nil {
		return config.ModelParams{}, hcl.Diagnostics{
			blockDiagnostic("Invalid model", fmt.Errorf("model %q: %w", m.Name, err), m.Remain),
		}
	}
	return params, nil
}
