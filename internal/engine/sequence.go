package engine

import "github.com/tatianab/memory-bomb/internal/models"

// Rand is the random source the engine draws from. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform value in [0, n). n is always positive.
	IntN(n int) int
}

// GenerateSequence draws length symbols independently and uniformly from [0, alphabetSize).
func GenerateSequence(r Rand, length, alphabetSize int) models.Sequence {
	if length <= 0 || alphabetSize <= 0 {
		return models.Sequence{}
	}
	seq := make(models.Sequence, length)
	for i := range seq {
		seq[i] = models.Symbol(r.IntN(alphabetSize))
	}
	return seq
}
