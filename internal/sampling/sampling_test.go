package sampling

import "testing"

func TestSampleOnePicksByWeight(t *testing.T) {
	pv := []float64{0.2, 0.3, 0.5}

	cases := []struct {
		u    float64
		want int
	}{
		{0.0, 0},
		{0.19, 0},
		{0.2, 0},
		{0.21, 1},
		{0.49, 1},
		{0.5, 1},
		{0.51, 2},
		{0.999, 2},
	}

	for _, tc := range cases {
		if got := SampleOne(pv, tc.u); got != tc.want {
			t.Errorf("SampleOne(%v, %v) = %d, want %d", pv, tc.u, got, tc.want)
		}
	}
}

func TestSampleOneAtTheUpperEdge(t *testing.T) {
	pv := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	if got := SampleOne(pv, 1.0); got != 2 {
		t.Errorf("SampleOne(%v, 1.0) = %d, want 2 (floating-point slack keeps the last bucket)", pv, got)
	}
}

func TestSampleOnePanicsWhenDistributionDoesNotSumToOne(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected SampleOne to panic on a distribution that doesn't sum to 1")
		}
	}()

	SampleOne([]float64{0.1, 0.1}, 0.99)
}
