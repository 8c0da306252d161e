package cfr

import (
	"math"
	"math/rand"
	"testing"
)

func TestGetStrategyStartsUniform(t *testing.T) {
	table := NewTable()
	strategy := table.GetStrategy("s0", 3)

	if len(strategy) != 3 {
		t.Fatalf("len(strategy) = %d, want 3", len(strategy))
	}
	for i, p := range strategy {
		if math.Abs(p-1.0/3.0) > 1e-9 {
			t.Errorf("strategy[%d] = %v, want uniform 1/3 (optimistic regrets start equal)", i, p)
		}
	}
}

func TestAddRegretClampsAtZero(t *testing.T) {
	table := NewTable()
	table.GetStrategy("s0", 2) // touch the infoset so it exists.

	table.AddRegret("s0", 2, 0, -1000)
	regrets := table.regretsFor("s0")
	if regrets[0] < 0 {
		t.Errorf("regrets[0] = %v, want clamped to >= 0", regrets[0])
	}
}

func TestAddRegretPanicsOnNonFiniteUpdate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected AddRegret to panic on a non-finite regret")
		}
	}()

	table := NewTable()
	table.GetStrategy("s0", 2)
	table.AddRegret("s0", 2, 0, math.Inf(1))
}

func TestGetOrCreatePanicsOnActionCountMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a mismatched action count to panic")
		}
	}()

	table := NewTable()
	table.GetStrategy("s0", 2)
	table.GetStrategy("s0", 3)
}

func TestStrategyIsAProbabilityDistribution(t *testing.T) {
	table := NewTable()
	table.GetStrategy("s0", 4)
	table.AddRegret("s0", 4, 1, 5)
	table.AddRegret("s0", 4, 2, 2)

	strategy := table.GetStrategy("s0", 4)
	sum := 0.0
	for _, p := range strategy {
		if p < 0 {
			t.Errorf("strategy contains a negative probability: %v", strategy)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("strategy sums to %v, want 1", sum)
	}
}

func TestGetMoveIndexStaysInRange(t *testing.T) {
	table := NewTable()
	rng := rand.New(rand.NewSource(1))
	table.GetStrategy("s0", 3)

	for i := 0; i < 1000; i++ {
		idx := table.GetMoveIndex(rng, "s0", 3)
		if idx < 0 || idx >= 3 {
			t.Fatalf("GetMoveIndex returned out-of-range index %d", idx)
		}
	}
}

func TestFreezeIsIndependentOfLiveTable(t *testing.T) {
	table := NewTable()
	table.GetStrategy("s0", 2)
	table.AddRegret("s0", 2, 0, 3)

	frozen := table.Freeze()
	table.AddRegret("s0", 2, 0, 100)

	frozenRegrets := frozen.regretsFor("s0")
	liveRegrets := table.regretsFor("s0")
	if frozenRegrets[0] == liveRegrets[0] {
		t.Error("Freeze did not snapshot independently of later mutation")
	}
}

func TestNumInfoSets(t *testing.T) {
	table := NewTable()
	if n := table.NumInfoSets(); n != 0 {
		t.Fatalf("NumInfoSets() = %d on an empty table, want 0", n)
	}

	table.GetStrategy("s0", 2)
	table.GetStrategy("s1", 3)
	table.GetStrategy("s0", 2) // revisiting an existing infoset must not double-count.

	if n := table.NumInfoSets(); n != 2 {
		t.Errorf("NumInfoSets() = %d, want 2", n)
	}
}

func TestAddRegretIsRaceFreeAcrossGoroutines(t *testing.T) {
	table := NewTable()
	table.GetStrategy("s0", 2)

	const workers = 50
	const perWorker = 200
	done := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for j := 0; j < perWorker; j++ {
				table.AddRegret("s0", 2, 0, 1)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < workers; i++ {
		<-done
	}

	regrets := table.regretsFor("s0")
	want := initialRegret + float64(workers*perWorker)
	if regrets[0] != want {
		t.Errorf("regrets[0] = %v, want %v (a lost update under concurrent AddRegret)", regrets[0], want)
	}
}
