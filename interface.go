// Package cfr implements a Counterfactual Regret Minimization engine for
// two-player zero-sum extensive-form games with imperfect information.
//
// A game plugs into the learner by implementing Game. The learner
// (Learner) accumulates regrets into a Table via external-sampling CFR
// traversals (see Learner.Train) run in parallel across many self-play
// workers. A Table can be frozen into an immutable Player snapshot for
// evaluation or play, and checkpointed to disk between training runs.
package cfr

import "fmt"

// Action is the constraint every game's move type must satisfy: it must
// be comparable, so the learner and regret table can index by it, and
// convertible to a stable string for logs, tests, and checkpoint
// debugging.
type Action interface {
	comparable
	fmt.Stringer
}

// Game is the contract an extensive-form, two-player zero-sum game with
// imperfect information implements so that Learner can traverse it.
// A Game is parameterized by its own action alphabet A.
//
// Implementations encapsulate private per-player information, public
// history, whose turn it is, and (once terminal) the payout. All nine
// operations below are exactly the surface the learner needs; nothing
// else crosses the game/learner boundary.
type Game[A Action] interface {
	// BeginGame deals private information and resets history and turn.
	BeginGame()
	// NumPlayers returns the number of players in the game. The learner
	// in this package assumes exactly 2.
	NumPlayers() int
	// PlayerToAct returns the index of the player whose turn it is.
	// It is only meaningful when IsTerminal is false.
	PlayerToAct() int
	// Actions returns the legal actions at the current state, in a
	// deterministic order. It is empty if and only if the state is
	// terminal.
	Actions() []A
	// MakeMove applies action a. It panics if the state is terminal or
	// if a is not currently legal: both are programmer errors, not
	// user-recoverable conditions.
	MakeMove(a A)
	// IsTerminal reports whether the game has ended.
	IsTerminal() bool
	// Payout returns the zero-sum payoff for every player. It panics if
	// the state is not terminal.
	Payout() []float64
	// InformationSet returns the string identifying what the acting
	// player currently knows: their own private information, the public
	// history, and nothing else. Two states the acting player cannot
	// distinguish must return the same string; the string must not
	// contain a tab or newline.
	InformationSet() string
	// DeepCopy returns an independent copy of the game, indistinguishable
	// from the original under every observable operation above.
	DeepCopy() Game[A]
}

// Player is the surface consumed by evaluators: something that, given an
// information set and the actions legal there, picks one.
type Player[A Action] interface {
	GetMove(player int, infoSet string, actions []A) A
}
