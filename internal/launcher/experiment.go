package launcher

import (
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/specialistvlad/segprep/internal/config"
)

// Experiment is one (model, dataset, prompt) triple of a plan.
type Experiment struct {
	// Index is the 1-based position in launch order.
	Index   int
	Model   string
	Dataset string
	Prompt  string
	Params  config.ModelParams
}

// Name returns the experiment name passed to the trainer.
func (e Experiment) Name() string {
	return e.Model + "_ft_" + e.Dataset + "_" + e.Prompt
}

// OutputDir returns the directory the trainer writes predicted masks to.
func (e Experiment) OutputDir() string {
	return path.Join("output_masks", e.Model, "ft", e.Dataset, e.Prompt)
}

// LearningRate formats the learning rate the shortest way that round-trips.
// Values in [1e-4, 1e16) are written in decimal and always carry a fraction
// (1.0, 0.002); anything else uses exponent form (2e-05).
func (e Experiment) LearningRate() string {
	v := e.Params.LearningRate
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nN") {
		s += ".0"
	}
	return s
}

// Enumerate expands a plan into experiments: models outermost, then datasets
// in definition order, then prompts.
func Enumerate(p *config.Plan) ([]Experiment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	experiments := make([]Experiment, 0, p.ExperimentCount())
	for _, model := range p.Models {
		params := p.ModelParams[model]
		for _, ds := range p.Datasets {
			for _, prompt := range ds.Prompts {
				experiments = append(experiments, Experiment{
					Index:   len(experiments) + 1,
					Model:   model,
					Dataset: ds.Name,
					Prompt:  prompt,
					Params:  params,
				})
			}
		}
	}
	return experiments, nil
}
