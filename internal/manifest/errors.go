package manifest

import (
	"errors"

	"github.com/specialistvlad/segprep/internal/bbox"
)

var (
	// ErrDirectoryNotFound is returned before any write when the images or
	// masks directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrImageDecode is returned when the mask bbox policy is active and a mask
	// cannot be decoded. The run stops at the first such mask.
	ErrImageDecode = bbox.ErrDecode
)
