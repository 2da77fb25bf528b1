package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/segprep/internal/config"
	"github.com/specialistvlad/segprep/internal/hcl"
	"github.com/specialistvlad/segprep/internal/launcher"
	"github.com/specialistvlad/segprep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls  int
	failOn int
}

func (r *countingRunner) Run(context.Context, launcher.Command) (int, error) {
	r.calls++
	if r.calls == r.failOn {
		return 2, nil
	}
	return 0, nil
}

func setupApp(t *testing.T, cfg Config, opts ...Option) (*App, *testutil.SafeBuffer) {
	t.Helper()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	a := NewApp(out, appConfig, hcl.NewLoader(), opts...)

	t.Cleanup(func() {
		if os.Getenv("SEGPREP_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
		}
	})
	return a, out
}

func writeDatasetConfig(t *testing.T, dir string, blocks ...string) string {
	t.Helper()
	path := filepath.Join(dir, "datasets.hcl")
	testutil.WriteFile(t, path, strings.Join(blocks, "\n"))
	return path
}

func datasetBlock(name, root string, extra ...string) string {
	return fmt.Sprintf("dataset %q {\n  root = %q\n%s\n}\n", name, root, strings.Join(extra, "\n"))
}

func readSplit(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		errContains string
	}{
		{name: "manifest", cfg: Config{Command: CommandManifest, ConfigPaths: []string{"d.hcl"}}},
		{name: "finetune", cfg: Config{Command: CommandFinetune, ConfigPaths: []string{"p.hcl"}}},
		{name: "missing command", cfg: Config{ConfigPaths: []string{"d.hcl"}}, errContains: "a command is required"},
		{name: "unknown command", cfg: Config{Command: "train", ConfigPaths: []string{"d.hcl"}}, errContains: `unknown command "train"`},
		{name: "no paths", cfg: Config{Command: CommandManifest}, errContains: "at least one configuration path"},
		{name: "bad bbox", cfg: Config{Command: CommandManifest, ConfigPaths: []string{"d.hcl"}, BBox: "loose"}, errContains: "invalid bbox policy"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg.Command, cfg.Command)
		})
	}
}

func TestRun_Manifest(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	root := filepath.Join(dir, "kvasir")
	testutil.DatasetLayout(t, root, []string{"a.png", "b.png", "c.png"}, "b.png")
	path := writeDatasetConfig(t, dir, datasetBlock("kvasir", root, `
  catalog = "polyp"
  bbox    = "mask"
  split {
    train = 0.5
    val   = 0.5
    test  = 0
  }`))

	seed := int64(1)
	a, out := setupApp(t, Config{Command: CommandManifest, ConfigPaths: []string{path}, Seed: &seed})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	train := readSplit(t, filepath.Join(root, "anns", "train.json"))
	val := readSplit(t, filepath.Join(root, "anns", "val.json"))
	test := readSplit(t, filepath.Join(root, "anns", "test.json"))
	assert.Len(t, train, 1)
	assert.Len(t, val, 1)
	assert.Empty(t, test)

	names := []any{train[0]["img_name"], val[0]["img_name"]}
	assert.ElementsMatch(t, []any{"a.png", "c.png"}, names)
	assert.Equal(t, []any{1.0, 2.0, 1.0, 2.0}, train[0]["bbox"])
	assert.Equal(t, "polyp", train[0]["prompts"].(map[string]any)["p1"])

	logs := out.String()
	assert.Contains(t, logs, "Mask missing for image, skipping.")
	assert.Contains(t, logs, "Wrote 1 entries to "+filepath.Join(root, "anns", "train.json"))
	assert.Contains(t, logs, "Wrote 0 entries to "+filepath.Join(root, "anns", "test.json"))
}

func TestRun_ManifestSelectsDataset(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	testutil.DatasetLayout(t, first, []string{"a.png"})
	testutil.DatasetLayout(t, second, []string{"a.png"})
	path := writeDatasetConfig(t, dir, datasetBlock("first", first), datasetBlock("second", second))

	a, _ := setupApp(t, Config{Command: CommandManifest, ConfigPaths: []string{path}, Dataset: "second"})

	require.NoError(t, a.Run(context.Background()))
	assert.NoDirExists(t, filepath.Join(first, "anns"))
	assert.FileExists(t, filepath.Join(second, "anns", "train.json"))
}

func TestRun_ManifestUnknownDataset(t *testing.T) {
	dir := t.TempDir()
	path := writeDatasetConfig(t, dir, datasetBlock("first", dir), datasetBlock("second", dir))

	a, _ := setupApp(t, Config{Command: CommandManifest, ConfigPaths: []string{path}, Dataset: "third"})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, `dataset "third" not found (available: first, second)`)
}

func TestRun_ManifestMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeDatasetConfig(t, dir, datasetBlock("empty", filepath.Join(dir, "nowhere")))

	a, _ := setupApp(t, Config{Command: CommandManifest, ConfigPaths: []string{path}})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset empty")
}

func TestApplyOverrides(t *testing.T) {
	seed, idSeed := int64(3), int64(4)
	a := &App{config: &Config{Seed: &seed, IDSeed: &idSeed, BBox: "mask"}}
	d := config.NewDataset("x", "/data")

	require.NoError(t, a.applyOverrides(d))

	assert.Equal(t, int64(3), *d.Seed)
	assert.Equal(t, int64(4), *d.IDSeed)
	assert.Equal(t, "mask", string(d.BBox))
}

const finetunePlan = `
models = ["clipseg", "cris"]

model "clipseg" {
  batch_size = 32
  lr         = 0.002
}

model "cris" {
  batch_size = 16
  lr         = 0.00002
}

experiment_dataset "kvasir" {
  prompts = ["p0", "p1", "p2"]
}
`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.hcl")
	testutil.WriteFile(t, path, finetunePlan)
	return path
}

func TestRun_FinetuneStopsAtFirstFailure(t *testing.T) {
	// --- Arrange ---
	runner := &countingRunner{failOn: 3}
	a, out := setupApp(t, Config{Command: CommandFinetune, ConfigPaths: []string{writePlan(t)}}, WithRunner(runner))

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorIs(t, err, launcher.ErrCommandFailed)
	assert.Equal(t, 3, runner.calls)
	assert.Equal(t, 1, strings.Count(out.String(), "!!! ERROR - COMMAND FAILED!!!"))
}

func TestRun_FinetuneDryRunWithDebug(t *testing.T) {
	a, out := setupApp(t, Config{Command: CommandFinetune, ConfigPaths: []string{writePlan(t)}, DryRun: true, Debug: true})

	require.NoError(t, a.Run(context.Background()))

	logs := out.String()
	assert.Equal(t, 6, strings.Count(logs, "RUNNING COMMAND"))
	assert.Equal(t, 6, strings.Count(logs, "debug=default"))
	assert.Contains(t, logs, "experiment_name=cris_ft_kvasir_p2")
	assert.Contains(t, logs, "All experiments finished.")
}

func TestRun_FinetuneInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.hcl")
	testutil.WriteFile(t, path, `models = ["clipseg"]`)
	runner := &countingRunner{}
	a, _ := setupApp(t, Config{Command: CommandFinetune, ConfigPaths: []string{path}}, WithRunner(runner))

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Zero(t, runner.calls)
}

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		level, format string
		wantDebug     bool
		wantJSON      bool
	}{
		{level: "debug", format: "json", wantDebug: true, wantJSON: true},
		{level: "info", format: "text"},
		{level: "bogus", format: "text"},
	}
	for _, tc := range testCases {
		buf := &bytes.Buffer{}
		logger := newLogger(tc.level, tc.format, buf)
		logger.Debug("debug line")
		logger.Info("info line")

		assert.Equal(t, tc.wantDebug, strings.Contains(buf.String(), "debug line"))
		assert.Contains(t, buf.String(), "info line")
		assert.Equal(t, tc.wantJSON, strings.HasPrefix(buf.String(), "{"))
	}
}
