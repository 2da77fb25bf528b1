// Package launcher runs a batch of fine-tuning experiments, one external
// training command per (model, dataset, prompt) triple, stopping at the first
// failure.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/segprep/internal/config"
	"github.com/specialistvlad/segprep/internal/ctxlog"
)

// ErrCommandFailed matches every CommandError.
var ErrCommandFailed = errors.New("external command failed")

// CommandError reports the experiment that stopped the batch.
type CommandError struct {
	Experiment Experiment
	Command    Command
	ExitCode   int
	Err        error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("experiment %d (%s) failed: %v", e.Experiment.Index, e.Experiment.Name(), e.Err)
	}
	return fmt.Sprintf("experiment %d (%s) failed with exit code %d", e.Experiment.Index, e.Experiment.Name(), e.ExitCode)
}

// Is makes errors.Is(err, ErrCommandFailed) hold.
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

// Unwrap returns the underlying runner error, if any.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Launcher runs the experiments of a plan sequentially.
type Launcher struct {
	plan     *config.Plan
	template *Template
	runner   Runner
	outW     io.Writer
}

// New validates the plan, parses its command template and returns a Launcher
// that executes through runner and prints commands and failures to outW.
func New(plan *config.Plan, runner Runner, outW io.Writer) (*Launcher, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	tmpl, err := ParseTemplate(plan.Command)
	if err != nil {
		return nil, err
	}
	return &Launcher{plan: plan, template: tmpl, runner: runner, outW: outW}, nil
}

// Command renders the command for a single experiment.
func (l *Launcher) Command(e Experiment) (Command, error) {
	args, err := l.template.Render(Variables(e, l.plan))
	if err != nil {
		return Command{}, fmt.Errorf("experiment %s: %w", e.Name(), err)
	}
	if l.plan.Debug {
		args = append(args, "debug=default")
	}
	return Command{Args: args, Dir: l.plan.Workdir, Env: l.plan.Env}, nil
}

// Result lists the experiments that completed successfully.
type Result struct {
	Completed []Experiment
	Total     int
}

// Run executes every experiment in order. The first non-zero exit status or
// runner error aborts the remaining experiments and is returned as a
// *CommandError. Cancelling ctx stops the batch; an experiment that was
// running at the time is reported as interrupted, not failed.
func (l *Launcher) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	experiments, err := Enumerate(l.plan)
	if err != nil {
		return nil, err
	}
	result := &Result{Total: len(experiments)}
	logger.Info("Starting experiment batch.", "experiments", len(experiments))

	for _, e := range experiments {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		cmd, err := l.Command(e)
		if err != nil {
			return result, err
		}

		expLogger := logger.With("index", e.Index, "experiment", e.Name())
		fmt.Fprintf(l.outW, "RUNNING COMMAND \n%s\n", cmd)
		expLogger.Debug("Running experiment.", "args", len(cmd.Args))

		code, runErr := l.runner.Run(ctx, cmd)
		failed := runErr != nil || code != 0
		if err := ctx.Err(); failed && err != nil {
			expLogger.Warn("Experiment interrupted, stopping batch.", "error", err)
			return result, fmt.Errorf("experiment %d (%s) interrupted: %w", e.Index, e.Name(), err)
		}
		if failed {
			fmt.Fprintf(l.outW, "!!! ERROR - COMMAND FAILED!!! \n%s\n", cmd)
			expLogger.Error("Experiment failed, aborting remaining experiments.",
				"exit_code", code, "error", runErr, "remaining", len(experiments)-e.Index)
			return result, &CommandError{Experiment: e, Command: cmd, ExitCode: code, Err: runErr}
		}

		expLogger.Info("Experiment finished.")
		result.Completed = append(result.Completed, e)
	}

	logger.Info("Experiment batch finished.", "completed", len(result.Completed))
	return result, nil
}
