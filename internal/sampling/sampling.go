// Package sampling implements the cumulative-mass sampling routine shared
// by the regret table's GetMoveIndex (through which the learner samples
// opponent actions) and FrozenPlayer.GetMove.
package sampling

const eps = 1e-6

// SampleOne draws an index from pv, a probability distribution over
// len(pv) outcomes, given a draw u in [0,1). It returns the first index i
// such that the cumulative mass of pv[:i+1] is at least u, falling through to
// the last index to absorb floating-point rounding at the tail of the
// distribution.
func SampleOne(pv []float64, u float64) int {
	var cumProb float64
	for i, p := range pv {
		cumProb += p
		if cumProb >= u {
			return i
		}
	}

	if cumProb < 1.0-eps {
		panic("cfr: probability distribution does not sum to 1")
	}

	return len(pv) - 1
}
