package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/segprep/internal/bbox"
	"github.com/specialistvlad/segprep/internal/config"
	"github.com/specialistvlad/segprep/internal/ctxlog"
	"github.com/specialistvlad/segprep/internal/launcher"
	"github.com/specialistvlad/segprep/internal/manifest"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	var err error
	switch a.config.Command {
	case CommandManifest:
		err = a.runManifest(ctx)
	case CommandFinetune:
		err = a.runFinetune(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

func (a *App) runManifest(ctx context.Context) error {
	datasets, err := a.loader.LoadDatasets(ctx, a.config.ConfigPaths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	datasets, err = selectDataset(datasets, a.config.Dataset)
	if err != nil {
		return err
	}

	for _, d := range datasets {
		if err := a.applyOverrides(d); err != nil {
			return err
		}
		result, err := manifest.New(d).Build(ctx)
		if err != nil {
			return fmt.Errorf("dataset %s: %w", d.Name, err)
		}
		for _, s := range result.Splits {
			fmt.Fprintf(a.outW, "Wrote %d entries to %s\n", s.Count, s.Path)
		}
		a.logger.Info("Dataset manifests complete.",
			"dataset", d.Name,
			"matched", result.Matched,
			"missing_masks", len(result.Missing),
		)
	}
	return nil
}

// applyOverrides layers the command-line settings over a loaded dataset.
func (a *App) applyOverrides(d *config.Dataset) error {
	if a.config.Seed != nil {
		d.Seed = a.config.Seed
	}
	if a.config.IDSeed != nil {
		d.IDSeed = a.config.IDSeed
	}
	if a.config.BBox != "" {
		policy, err := bbox.ParsePolicy(a.config.BBox)
		if err != nil {
			return err
		}
		d.BBox = policy
	}
	return nil
}

// selectDataset returns every dataset when name is empty, otherwise the one
// with that name.
func selectDataset(datasets []*config.Dataset, name string) ([]*config.Dataset, error) {
	if name == "" {
		return datasets, nil
	}
	names := make([]string, 0, len(datasets))
	for _, d := range datasets {
		if d.Name == name {
			return []*config.Dataset{d}, nil
		}
		names = append(names, d.Name)
	}
	return nil, fmt.Errorf("dataset %q not found (available: %s)", name, strings.Join(names, ", "))
}

func (a *App) runFinetune(ctx context.Context) error {
	plan, err := a.loader.LoadPlan(ctx, a.config.ConfigPaths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.config.Debug {
		plan.Debug = true
	}

	l, err := launcher.New(plan, a.runner, a.outW)
	if err != nil {
		return err
	}

	if a.config.DryRun {
		a.logger.Info("Dry run, commands are printed but not executed.")
	}
	a.logger.Info("🚀 Starting fine-tuning experiments...", "experiments", plan.ExperimentCount())
	result, err := l.Run(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("🏁 All experiments finished.", "completed", len(result.Completed))
	return nil
}
