package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/segprep/internal/bbox"
)

const (
	// CommandManifest builds dataset manifests.
	CommandManifest = "manifest"
	// CommandFinetune launches fine-tuning experiments.
	CommandFinetune = "finetune"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command     string
	ConfigPaths []string // hcl files or directories

	// manifest
	Dataset string
	Seed    *int64
	IDSeed  *int64
	BBox    string

	// finetune
	DryRun bool
	Debug  bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandManifest, CommandFinetune:
	case "":
		return nil, errors.New("a command is required: manifest or finetune")
	default:
		return nil, fmt.Errorf("unknown command %q: must be manifest or finetune", cfg.Command)
	}

	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}

	if cfg.BBox != "" {
		if _, err := bbox.ParsePolicy(cfg.BBox); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
