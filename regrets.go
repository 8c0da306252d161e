package cfr

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/rivertable/cfrcore/internal/f64"
	"github.com/rivertable/cfrcore/internal/sampling"
)

// initialRegret is the optimistic value every regret entry starts at
// when an information set is first observed. Starting positive instead
// of at zero biases early play toward uniform exploration rather than
// toward whichever action happens to be tried first.
const initialRegret = 10.0

// regretEntry holds the accumulated per-action regrets for a single
// information set. Every RMW against regrets goes through mu, so
// concurrent workers traversing the same infoset never lose an update.
type regretEntry struct {
	mu      sync.Mutex
	regrets []float64
}

// Table is a concurrent mapping from information-set id to a vector of
// per-action cumulative positive regrets. It is owned by one Learner and
// shared, read-mostly, among all of that learner's parallel workers.
//
// Insertion of a brand-new infoset is atomic with respect to concurrent
// first-touches (tableMu), and each per-action regret update is atomic
// with respect to concurrent updates at the same infoset (the entry's own
// mu), so workers contend only on infosets they actually share rather
// than on a single table-wide mutex.
type Table struct {
	tableMu sync.Mutex
	entries map[string]*regretEntry
}

// NewTable returns an empty regret table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*regretEntry)}
}

func (t *Table) getOrCreate(infoSet string, nActions int) *regretEntry {
	t.tableMu.Lock()
	e, ok := t.entries[infoSet]
	if !ok {
		e = &regretEntry{regrets: make([]float64, nActions)}
		for i := range e.regrets {
			e.regrets[i] = initialRegret
		}
		t.entries[infoSet] = e
	}
	t.tableMu.Unlock()

	if len(e.regrets) != nActions {
		panic(fmt.Errorf("cfr: infoset %q has %d actions but table entry has %d regrets",
			infoSet, nActions, len(e.regrets)))
	}

	return e
}

// GetStrategy implements get_strategy: upsert the infoset with an
// optimistic regret vector if absent, then derive the regret-matching
// strategy from the current regrets. The returned slice is a fresh copy
// safe for the caller to keep across concurrent mutation of the table.
func (t *Table) GetStrategy(infoSet string, nActions int) []float64 {
	e := t.getOrCreate(infoSet, nActions)

	e.mu.Lock()
	defer e.mu.Unlock()
	return regretMatchingStrategy(e.regrets)
}

func regretMatchingStrategy(regrets []float64) []float64 {
	strategy := make([]float64, len(regrets))
	f64.PositivePart(strategy, regrets)
	total := f64.Sum(strategy)
	if total > 0 {
		f64.ScalUnitary(1.0/total, strategy)
	} else {
		u := 1.0 / float64(len(strategy))
		for i := range strategy {
			strategy[i] = u
		}
	}

	return strategy
}

// AddRegret applies the CFR regret update for a single action at an
// infoset: regrets[action] <- max(0, regrets[action] + delta). It is the
// only mutator of stored regrets and is safe for concurrent callers.
func (t *Table) AddRegret(infoSet string, nActions, action int, delta float64) {
	e := t.getOrCreate(infoSet, nActions)

	e.mu.Lock()
	defer e.mu.Unlock()

	updated := e.regrets[action] + delta
	if math.IsNaN(updated) || math.IsInf(updated, 0) {
		panic(fmt.Errorf("cfr: non-finite regret at infoset %q action %d: %v", infoSet, action, updated))
	}

	if updated < 0 {
		updated = 0
	}

	e.regrets[action] = updated
}

// GetMoveIndex implements get_move: draw an action index from the
// regret-matching strategy at infoSet using rng.
func (t *Table) GetMoveIndex(rng *rand.Rand, infoSet string, nActions int) int {
	strategy := t.GetStrategy(infoSet, nActions)
	return sampling.SampleOne(strategy, rng.Float64())
}

// LookupStrategy returns the regret-matching strategy at infoSet without
// inserting a new entry if it is absent. FrozenPlayer relies on this to
// stay genuinely read-only: a frozen snapshot must not grow just because
// play visits an infoset that was never trained.
func (t *Table) LookupStrategy(infoSet string) ([]float64, bool) {
	t.tableMu.Lock()
	e, ok := t.entries[infoSet]
	t.tableMu.Unlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return regretMatchingStrategy(e.regrets), true
}

// NumInfoSets returns the number of distinct information sets currently
// held in the table.
func (t *Table) NumInfoSets() int {
	t.tableMu.Lock()
	defer t.tableMu.Unlock()
	return len(t.entries)
}

// Freeze returns an independent deep copy of the table: every infoset's
// regret vector is copied, so later mutation of t is invisible to the
// returned snapshot. This is the construction used to build a Player
// that does not move as training continues.
func (t *Table) Freeze() *Table {
	t.tableMu.Lock()
	defer t.tableMu.Unlock()

	frozen := NewTable()
	for k, e := range t.entries {
		e.mu.Lock()
		regrets := make([]float64, len(e.regrets))
		copy(regrets, e.regrets)
		e.mu.Unlock()
		frozen.entries[k] = &regretEntry{regrets: regrets}
	}

	return frozen
}

// sortedInfoSets returns every infoset key in the table, lexicographically
// sorted -- the order required by the checkpoint format.
func (t *Table) sortedInfoSets() []string {
	t.tableMu.Lock()
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	t.tableMu.Unlock()

	sort.Strings(keys)
	return keys
}

func (t *Table) regretsFor(infoSet string) []float64 {
	t.tableMu.Lock()
	e := t.entries[infoSet]
	t.tableMu.Unlock()
	if e == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]float64, len(e.regrets))
	copy(out, e.regrets)
	return out
}
