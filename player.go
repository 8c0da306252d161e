package cfr

import (
	"math/rand"

	"github.com/rivertable/cfrcore/internal/sampling"
)

// FrozenPlayer plays according to a Table snapshot that no longer
// mutates. It is constructed from Table.Freeze and is the player surface
// the trainer evaluates and that a host process would hand to a
// human-vs-bot harness (out of scope for this package).
type FrozenPlayer[A Action] struct {
	table *Table
	rng   *rand.Rand
}

// NewFrozenPlayer wraps a frozen Table as a Player. The caller must pass
// a table obtained from Table.Freeze (or any table it no longer mutates);
// FrozenPlayer never writes to it.
func NewFrozenPlayer[A Action](table *Table, rng *rand.Rand) *FrozenPlayer[A] {
	return &FrozenPlayer[A]{table: table, rng: rng}
}

// GetMove implements Player. An infoset the frozen table never saw
// during training (e.g. an opening move in an undertrained game) is
// played uniformly at random rather than silently growing the table.
func (p *FrozenPlayer[A]) GetMove(player int, infoSet string, actions []A) A {
	strategy, ok := p.table.LookupStrategy(infoSet)
	if !ok || len(strategy) != len(actions) {
		return actions[p.rng.Intn(len(actions))]
	}

	i := sampling.SampleOne(strategy, p.rng.Float64())
	return actions[i]
}

// RandomPlayer plays uniformly at random among the legal actions. It is
// the baseline the trainer measures a FrozenPlayer's improvement against.
type RandomPlayer[A Action] struct {
	rng *rand.Rand
}

// NewRandomPlayer returns a Player that samples uniformly among the
// actions offered to it.
func NewRandomPlayer[A Action](rng *rand.Rand) *RandomPlayer[A] {
	return &RandomPlayer[A]{rng: rng}
}

// GetMove implements Player.
func (p *RandomPlayer[A]) GetMove(player int, infoSet string, actions []A) A {
	return actions[p.rng.Intn(len(actions))]
}
