// Package manifest builds the train/val/test annotation manifests of a
// segmentation dataset from its images and masks directories.
package manifest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/specialistvlad/segprep/internal/bbox"
	"github.com/specialistvlad/segprep/internal/config"
	"github.com/specialistvlad/segprep/internal/ctxlog"
	"github.com/specialistvlad/segprep/internal/fsutil"
	"github.com/specialistvlad/segprep/internal/segid"
)

// Builder generates the manifests of a single dataset.
type Builder struct {
	dataset *config.Dataset
	rng     *rand.Rand
	ids     segid.Generator
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRand overrides the shuffle source.
func WithRand(rng *rand.Rand) Option {
	return func(b *Builder) { b.rng = rng }
}

// WithIDGenerator overrides the segment id generator.
func WithIDGenerator(g segid.Generator) Option {
	return func(b *Builder) { b.ids = g }
}

// New creates a Builder for d. Unless overridden, the shuffle and the segment
// ids are seeded from d.Seed and d.IDSeed respectively.
func New(d *config.Dataset, opts ...Option) *Builder {
	b := &Builder{dataset: d}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = NewRand(d.Seed)
	}
	if b.ids == nil {
		if d.IDSeed != nil {
			b.ids = segid.NewSeeded(*d.IDSeed)
		} else {
			b.ids = segid.New()
		}
	}
	return b
}

// SplitResult describes one written manifest file.
type SplitResult struct {
	Name  SplitName
	Path  string
	Count int
}

// Result summarizes a build.
type Result struct {
	Dataset string
	Matched int
	Missing []string
	Splits  []SplitResult
}

// Scan lists the eligible images and returns those that have a mask with the
// same name, in lexicographic order, along with the names that do not.
func (b *Builder) Scan(ctx context.Context) (matched, missing []string, err error) {
	logger := ctxlog.FromContext(ctx)
	d := b.dataset

	for _, dir := range []string{d.ImagesDir, d.MasksDir} {
		if !fsutil.IsDir(dir) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
	}

	images, err := fsutil.ListFilesByExtensions(d.ImagesDir, d.Extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list images in %s: %w", d.ImagesDir, err)
	}
	logger.Debug("Scanned images directory.", "dir", d.ImagesDir, "count", len(images))

	for _, name := range images {
		if fsutil.IsFile(filepath.Join(d.MasksDir, name)) {
			matched = append(matched, name)
			continue
		}
		logger.Warn("Mask missing for image, skipping.", "image", name)
		missing = append(missing, name)
	}

	logger.Info("Matched image/mask pairs.", "dataset", d.Name, "matched", len(matched), "missing", len(missing))
	return matched, missing, nil
}

// Records builds one annotation record per file, in order.
func (b *Builder) Records(ctx context.Context, files []string) ([]Record, error) {
	d := b.dataset
	records := make([]Record, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		box, err := bbox.Compute(d.BBox, filepath.Join(d.MasksDir, name))
		if err != nil {
			return nil, err
		}
		id, err := b.ids.Next()
		if err != nil {
			return nil, err
		}
		records = append(records, newRecord(name, id, box, d.Category, d.Prompts))
	}
	return records, nil
}

// Build scans, splits and writes train.json, val.json and test.json into the
// dataset's annotations directory, overwriting earlier manifests. A failure
// while building a later split leaves the earlier files in place.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	d := b.dataset
	ctx = ctxlog.With(ctx, "dataset", d.Name)
	logger := ctxlog.FromContext(ctx)

	matched, missing, err := b.Scan(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(d.AnnsDir, permDir); err != nil {
		return nil, fmt.Errorf("failed to create annotations directory %s: %w", d.AnnsDir, err)
	}

	splits := Partition(matched, d.Split, b.rng)
	logger.Info("Split matched files.", "train", len(splits.Train), "val", len(splits.Val), "test", len(splits.Test))

	result := &Result{Dataset: d.Name, Matched: len(matched), Missing: missing}
	for _, name := range SplitOrder {
		records, err := b.Records(ctx, splits.Get(name))
		if err != nil {
			return result, fmt.Errorf("failed to build %s split: %w", name, err)
		}

		path := filepath.Join(d.AnnsDir, string(name)+".json")
		if err := writeJSON(path, records); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info("Wrote manifest.", "split", name, "entries", len(records), "path", path)
		result.Splits = append(result.Splits, SplitResult{Name: name, Path: path, Count: len(records)})
	}

	return result, nil
}
