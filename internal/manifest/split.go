package manifest

import (
	"math/rand/v2"

	"github.com/specialistvlad/segprep/internal/config"
)

// SplitName identifies one partition of the matched set.
type SplitName string

const (
	Train SplitName = "train"
	Val   SplitName = "val"
	Test  SplitName = "test"
)

// SplitOrder is the order splits are cut from the shuffled list and written.
var SplitOrder = []SplitName{Train, Val, Test}

// Splits holds the file names of each partition.
type Splits struct {
	Train []string
	Val   []string
	Test  []string
}

// Get returns the files of the named split.
func (s Splits) Get(name SplitName) []string {
	switch name {
	case Train:
		return s.Train
	case Val:
		return s.Val
	default:
		return s.Test
	}
}

// Total returns the number of files across all splits.
func (s Splits) Total() int {
	return len(s.Train) + len(s.Val) + len(s.Test)
}

// Sizes returns the train and val sizes for n files; test takes the rest,
// including the rounding remainder.
func Sizes(n int, ratios config.Split) (nTrain, nVal, nTest int) {
	nTrain = int(float64(n) * ratios.Train)
	nVal = int(float64(n) * ratios.Val)
	if nTrain > n {
		nTrain = n
	}
	if nTrain+nVal > n {
		nVal = n - nTrain
	}
	return nTrain, nVal, n - nTrain - nVal
}

// Partition shuffles a copy of files with rng and cuts it into contiguous
// train, val and test ranges. The input slice is left untouched.
func Partition(files []string, ratios config.Split, rng *rand.Rand) Splits {
	shuffled := append([]string(nil), files...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTrain, nVal, _ := Sizes(len(shuffled), ratios)
	return Splits{
		Train: shuffled[:nTrain],
		Val:   shuffled[nTrain : nTrain+nVal],
		Test:  shuffled[nTrain+nVal:],
	}
}

// NewRand returns a random source seeded with seed, or a randomly seeded one
// when seed is nil.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(*seed), 0))
}
