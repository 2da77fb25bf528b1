// Package bbox computes axis-aligned bounding boxes from segmentation masks.
package bbox

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrDecode is returned when a mask file cannot be opened or decoded.
var ErrDecode = errors.New("image decode error")

// Box is [x_min, y_min, x_max, y_max] in pixel coordinates, inclusive.
type Box [4]int

// Placeholder is the fixed box written when bounding boxes are not computed.
var Placeholder = Box{0, 0, 0, 0}

// Policy selects how a record's bounding box is produced.
type Policy string

const (
	// PolicyFixed always emits Placeholder.
	PolicyFixed Policy = "fixed"
	// PolicyMask emits the tight bound of the positive mask pixels.
	PolicyMask Policy = "mask"
)

// ParsePolicy validates a policy name. The empty string selects PolicyFixed.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFixed:
		return PolicyFixed, nil
	case PolicyMask:
		return PolicyMask, nil
	default:
		return "", fmt.Errorf("invalid bbox policy %q: must be 'fixed' or 'mask'", s)
	}
}

// FromImage returns the tight bound over every pixel whose value is greater than
// zero. A mask without positive pixels yields the full image extent.
func FromImage(img image.Image) Box {
	b := img.Bounds()
	minX, minY := b.Dx(), b.Dy()
	maxX, maxY := -1, -1

	positive := positiveFunc(img)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !positive(x, y) {
				continue
			}
			px, py := x-b.Min.X, y-b.Min.Y
			minX = min(minX, px)
			minY = min(minY, py)
			maxX = max(maxX, px)
			maxY = max(maxY, py)
		}
	}

	if maxX < 0 {
		return Box{0, 0, b.Dx() - 1, b.Dy() - 1}
	}
	return Box{minX, minY, maxX, maxY}
}

// positiveFunc picks a per-pixel predicate for the concrete image type. Paletted
// masks are judged by palette index, everything else by any non-zero color channel.
func positiveFunc(img image.Image) func(x, y int) bool {
	switch m := img.(type) {
	case *image.Gray:
		return func(x, y int) bool { return m.GrayAt(x, y).Y > 0 }
	case *image.Gray16:
		return func(x, y int) bool { return m.Gray16At(x, y).Y > 0 }
	case *image.Paletted:
		return func(x, y int) bool { return m.ColorIndexAt(x, y) > 0 }
	default:
		return func(x, y int) bool {
			r, g, b, _ := img.At(x, y).RGBA()
			return r > 0 || g > 0 || b > 0
		}
	}
}

// FromFile decodes the mask at path and returns its bounding box.
func FromFile(path string) (Box, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Box{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return FromImage(img), nil
}

// Compute applies policy to the mask at path. PolicyFixed never touches the file.
func Compute(policy Policy, path string) (Box, error) {
	if policy == PolicyMask {
		return FromFile(path)
	}
	return Placeholder, nil
}
