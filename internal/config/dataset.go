package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/specialistvlad/segprep/internal/bbox"
	"github.com/specialistvlad/segprep/internal/catalog"
)

// splitTolerance absorbs float noise when checking that the ratios sum to one.
const splitTolerance = 1e-6

// Split holds the train/val/test proportions.
type Split struct {
	Train float64
	Val   float64
	Test  float64
}

// DefaultSplit is 70/15/15.
func DefaultSplit() Split {
	return Split{Train: 0.70, Val: 0.15, Test: 0.15}
}

// Validate checks that every ratio is within [0, 1] and that they sum to 1.
func (s Split) Validate() error {
	for _, r := range []struct {
		name  string
		value float64
	}{{"train", s.Train}, {"val", s.Val}, {"test", s.Test}} {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s ratio must be within [0, 1], got %v", r.name, r.value)
		}
	}
	if sum := s.Train + s.Val + s.Test; math.Abs(sum-1) > splitTolerance {
		return fmt.Errorf("split ratios must sum to 1.0, got %v", sum)
	}
	return nil
}

// DefaultExtensions is the image extension allow-list used when none is configured.
func DefaultExtensions() []string {
	return []string{".tif", ".png", ".jpg", ".jpeg"}
}

// Dataset describes one manifest build: where the images and masks live,
// how to split them and what every record carries.
type Dataset struct {
	Name       string
	Root       string
	ImagesDir  string
	MasksDir   string
	AnnsDir    string
	Extensions []string
	Split      Split
	BBox       bbox.Policy
	Category   int
	Prompts    catalog.Catalog

	// Seed fixes the shuffle; IDSeed fixes segment id generation. Nil means random.
	Seed   *int64
	IDSeed *int64

	// SourceFile is the configuration file the dataset was read from.
	SourceFile string
}

// NewDataset returns a dataset rooted at root with the conventional
// images/masks/anns layout and default settings.
func NewDataset(name, root string) *Dataset {
	d := &Dataset{
		Name:       name,
		Root:       root,
		Extensions: DefaultExtensions(),
		Split:      DefaultSplit(),
		BBox:       bbox.PolicyFixed,
		Prompts:    catalog.Catalog{},
	}
	d.ResolveDirs()
	return d
}

// ResolveDirs fills empty directories with the <root>/{images,masks,anns}
// convention and anchors relative directories at Root.
func (d *Dataset) ResolveDirs() {
	d.ImagesDir = resolveUnder(d.Root, d.ImagesDir, "images")
	d.MasksDir = resolveUnder(d.Root, d.MasksDir, "masks")
	d.AnnsDir = resolveUnder(d.Root, d.AnnsDir, "anns")
}

func resolveUnder(root, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) || root == "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// Validate checks the dataset for structural errors.
func (d *Dataset) Validate() error {
	if d.Name == "" {
		return errors.New("dataset name cannot be empty")
	}
	if d.ImagesDir == "" || d.MasksDir == "" || d.AnnsDir == "" {
		return fmt.Errorf("dataset %q: images, masks and anns directories are required", d.Name)
	}
	if len(d.Extensions) == 0 {
		return fmt.Errorf("dataset %q: at least one image extension is required", d.Name)
	}
	if err := d.Split.Validate(); err != nil {
		return fmt.Errorf("dataset %q: %w", d.Name, err)
	}
	if _, err := bbox.ParsePolicy(string(d.BBox)); err != nil {
		return fmt.Errorf("dataset %q: %w", d.Name, err)
	}
	return nil
}
