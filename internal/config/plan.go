package config

import (
	"errors"
	"fmt"
	"math"
)

// ModelParams are the per-model hyperparameters substituted into each command.
type ModelParams struct {
	BatchSize    int
	LearningRate float64
}

// Validate checks that the hyperparameters are usable.
func (m ModelParams) Validate() error {
	if m.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", m.BatchSize)
	}
	if !(m.LearningRate > 0) || math.IsInf(m.LearningRate, 0) {
		return fmt.Errorf("lr must be a positive finite number, got %v", m.LearningRate)
	}
	return nil
}

// Trainer holds the settings shared by every experiment in a plan.
type Trainer struct {
	Accelerator string
	Precision   string
	Devices     string
	Logger      string
}

// DefaultTrainer returns the trainer settings used when a plan omits them.
func DefaultTrainer() Trainer {
	return Trainer{
		Accelerator: "gpu",
		Precision:   "16-mixed",
		Devices:     "1",
		Logger:      "wandb",
	}
}

// DatasetPrompts names a dataset and the prompt keys to fine-tune it with.
type DatasetPrompts struct {
	Name    string
	Prompts []string
}

// Plan describes a batch of fine-tuning experiments. Datasets keep their
// definition order, which is also the launch order.
type Plan struct {
	Models      []string
	ModelParams map[string]ModelParams
	Datasets    []DatasetPrompts
	Trainer     Trainer

	// Command is the argv template; each element is an HCL template string.
	Command []string
	Tags    []string
	Debug   bool
	Workdir string
	Env     map[string]string

	SourceFiles []string
}

// DefaultCommand is the argv template for the training entry point.
func DefaultCommand() []string {
	return []string{
		"python", "src/train.py",
		"experiment=${model}.yaml",
		"experiment_name=${experiment_name}",
		"datamodule=img_txt_mask/${dataset}.yaml",
		"datamodule.batch_size=${batch_size}",
		"model.optimizer.lr=${lr}",
		"trainer.accelerator=${accelerator}",
		"trainer.precision=${precision}",
		"trainer.devices=${devices}",
		"prompt_type=${prompt}",
		"logger=${logger}.yaml",
		"tags=[${join(\", \", tags)}]",
		"output_masks_dir=${output_dir}",
	}
}

// NewPlan returns an empty plan with default trainer settings and command.
func NewPlan() *Plan {
	return &Plan{
		ModelParams: make(map[string]ModelParams),
		Trainer:     DefaultTrainer(),
		Command:     DefaultCommand(),
		Env:         make(map[string]string),
	}
}

// Validate checks that every referenced model has hyperparameters and that
// the cross-product is well formed.
func (p *Plan) Validate() error {
	if len(p.Models) == 0 {
		return errors.New("plan must list at least one model")
	}
	if len(p.Datasets) == 0 {
		return errors.New("plan must define at least one dataset")
	}
	if len(p.Command) == 0 {
		return errors.New("plan command cannot be empty")
	}

	seenModels := make(map[string]struct{}, len(p.Models))
	for _, m := range p.Models {
		if _, dup := seenModels[m]; dup {
			return fmt.Errorf("model %q is listed more than once", m)
		}
		seenModels[m] = struct{}{}

		params, ok := p.ModelParams[m]
		if !ok {
			return fmt.Errorf("model %q has no hyperparameters; add a model %q block", m, m)
		}
		if err := params.Validate(); err != nil {
			return fmt.Errorf("model %q: %w", m, err)
		}
	}

	seenDatasets := make(map[string]struct{}, len(p.Datasets))
	for _, d := range p.Datasets {
		if d.Name == "" {
			return errors.New("dataset name cannot be empty")
		}
		if _, dup := seenDatasets[d.Name]; dup {
			return fmt.Errorf("dataset %q is defined more than once", d.Name)
		}
		seenDatasets[d.Name] = struct{}{}
		if len(d.Prompts) == 0 {
			return fmt.Errorf("dataset %q has no prompts", d.Name)
		}
	}
	return nil
}

// ExperimentCount returns the size of the model x dataset x prompt product.
func (p *Plan) ExperimentCount() int {
	perModel := 0
	for _, d := range p.Datasets {
		perModel += len(d.Prompts)
	}
	return perModel * len(p.Models)
}
