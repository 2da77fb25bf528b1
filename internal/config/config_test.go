package config

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/segprep/internal/bbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitValidate(t *testing.T) {
	testCases := []struct {
		name      string
		split     Split
		expectErr string
	}{
		{name: "default", split: DefaultSplit()},
		{name: "half half", split: Split{Train: 0.5, Val: 0.5}},
		{name: "thirds within tolerance", split: Split{Train: 1.0 / 3, Val: 1.0 / 3, Test: 1.0 / 3}},
		{name: "sum too low", split: Split{Train: 0.5, Val: 0.2}, expectErr: "sum to 1.0"},
		{name: "negative", split: Split{Train: 1.2, Val: -0.2}, expectErr: "train ratio"},
		{name: "nan", split: Split{Train: math.NaN()}, expectErr: "train ratio"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.split.Validate()
			if tc.expectErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestNewDataset_ConventionalLayout(t *testing.T) {
	d := NewDataset("kvasir", "/data/kvasir")

	assert.Equal(t, filepath.Join("/data/kvasir", "images"), d.ImagesDir)
	assert.Equal(t, filepath.Join("/data/kvasir", "masks"), d.MasksDir)
	assert.Equal(t, filepath.Join("/data/kvasir", "anns"), d.AnnsDir)
	assert.Equal(t, DefaultExtensions(), d.Extensions)
	assert.Equal(t, bbox.PolicyFixed, d.BBox)
	require.NoError(t, d.Validate())
}

func TestDatasetResolveDirs(t *testing.T) {
	d := &Dataset{Name: "x", Root: "/data/x", ImagesDir: "imgs", MasksDir: "/abs/masks"}
	d.ResolveDirs()

	assert.Equal(t, filepath.Join("/data/x", "imgs"), d.ImagesDir)
	assert.Equal(t, "/abs/masks", d.MasksDir)
	assert.Equal(t, filepath.Join("/data/x", "anns"), d.AnnsDir)
}

func TestDatasetValidate(t *testing.T) {
	d := NewDataset("", "/data")
	assert.ErrorContains(t, d.Validate(), "name cannot be empty")

	d = NewDataset("x", "/data")
	d.Extensions = nil
	assert.ErrorContains(t, d.Validate(), "extension")

	d = NewDataset("x", "/data")
	d.Split = Split{Train: 0.9}
	assert.ErrorContains(t, d.Validate(), `dataset "x"`)

	d = NewDataset("x", "/data")
	d.BBox = "tight"
	assert.ErrorContains(t, d.Validate(), "bbox policy")
}

func validPlan() *Plan {
	p := NewPlan()
	p.Models = []string{"clipseg", "cris"}
	p.ModelParams["clipseg"] = ModelParams{BatchSize: 32, LearningRate: 0.002}
	p.ModelParams["cris"] = ModelParams{BatchSize: 32, LearningRate: 0.00002}
	p.Datasets = []DatasetPrompts{{Name: "kvasir", Prompts: []string{"p0", "p1", "p2"}}}
	return p
}

func TestPlanValidate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(p *Plan)
		expectErr string
	}{
		{name: "valid", mutate: func(p *Plan) {}},
		{name: "no models", mutate: func(p *Plan) { p.Models = nil }, expectErr: "at least one model"},
		{name: "no datasets", mutate: func(p *Plan) { p.Datasets = nil }, expectErr: "at least one dataset"},
		{name: "empty command", mutate: func(p *Plan) { p.Command = nil }, expectErr: "command cannot be empty"},
		{name: "missing params", mutate: func(p *Plan) { delete(p.ModelParams, "cris") }, expectErr: `model "cris" has no hyperparameters`},
		{name: "duplicate model", mutate: func(p *Plan) { p.Models = append(p.Models, "cris") }, expectErr: "more than once"},
		{
			name:      "zero batch size",
			mutate:    func(p *Plan) { p.ModelParams["cris"] = ModelParams{LearningRate: 0.1} },
			expectErr: "batch_size must be positive",
		},
		{
			name:      "zero lr",
			mutate:    func(p *Plan) { p.ModelParams["cris"] = ModelParams{BatchSize: 1} },
			expectErr: "lr must be a positive finite number",
		},
		{
			name:      "nan lr",
			mutate:    func(p *Plan) { p.ModelParams["cris"] = ModelParams{BatchSize: 1, LearningRate: math.NaN()} },
			expectErr: "lr must be a positive finite number",
		},
		{
			name:      "duplicate dataset",
			mutate:    func(p *Plan) { p.Datasets = append(p.Datasets, p.Datasets[0]) },
			expectErr: "defined more than once",
		},
		{
			name:      "dataset without prompts",
			mutate:    func(p *Plan) { p.Datasets[0].Prompts = nil },
			expectErr: "has no prompts",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mutate(p)
			err := p.Validate()
			if tc.expectErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestPlanExperimentCount(t *testing.T) {
	p := validPlan()
	p.Datasets = append(p.Datasets, DatasetPrompts{Name: "hsc", Prompts: []string{"p1"}})
	assert.Equal(t, 8, p.ExperimentCount())
}
