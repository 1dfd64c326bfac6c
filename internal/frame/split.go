package frame

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Split is the result of TrainTestSplit.
type Split struct {
	XTrain, XTest *Frame
	YTrain, YTest []float64
}

// TrainTestSplit shuffles rows with a seeded generator and moves
// ceil(testSize * rows) of them into the test part. The same seed always
// yields the same split.
func TrainTestSplit(x *Frame, y []float64, testSize float64, seed uint64) (*Split, error) {
	if x.Len() != len(y) {
		return nil, fmt.Errorf("features have %d rows but target has %d", x.Len(), len(y))
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("test size must be between 0 and 1, got %v", testSize)
	}
	n := x.Len()
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < 1 || nTest >= n {
		return nil, fmt.Errorf("cannot split %d rows with test size %v", n, testSize)
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	testIdx, trainIdx := perm[:nTest], perm[nTest:]

	return &Split{
		XTrain: x.Subset(trainIdx),
		XTest:  x.Subset(testIdx),
		YTrain: pick(y, trainIdx),
		YTest:  pick(y, testIdx),
	}, nil
}

func pick(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}
