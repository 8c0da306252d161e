// Package kuhn13 implements a 13-rank, single-raise variant of Kuhn
// poker: each player antes 1, is dealt one private card from a 13-rank
// deck (2 through Ace, no suits), and plays a single betting round that
// allows one raise. It is adapted from the 3-card Kuhn poker tree in this
// lineage (justinsermeno.com/posts/cfr) generalized to 13 ranks and a
// raise/call-raise action.
package kuhn13

import (
	"fmt"
	"math/rand"

	"github.com/rivertable/cfrcore"
)

// Action is Kuhn-13's action alphabet.
type Action int

const (
	Check Action = iota
	Bet
	CallBet
	Fold
	Raise
	CallRaise
)

var actionNames = [...]string{
	Check:     "CHECK",
	Bet:       "BET",
	CallBet:   "CALLBET",
	Fold:      "FOLD",
	Raise:     "RAISE",
	CallRaise: "CALLRAISE",
}

// String implements fmt.Stringer.
func (a Action) String() string {
	if int(a) < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Card is one of the 13 distinct ranks, 2 through Ace, Ace high.
type Card int

const (
	minRank = 2
	maxRank = 14 // Ace
)

// String implements fmt.Stringer.
func (c Card) String() string {
	switch c {
	case 14:
		return "A"
	case 13:
		return "K"
	case 12:
		return "Q"
	case 11:
		return "J"
	default:
		return fmt.Sprintf("%d", int(c))
	}
}

// Game is a single hand of Kuhn-13 poker between two players.
type Game struct {
	p0Card, p1Card Card
	history        []Action
	contrib        [2]int
	player         int
	terminal       bool
	winner         int
}

var _ cfr.Game[Action] = &Game{}

// NewGame returns a freshly-dealt Kuhn-13 game, using rng for the deal.
// Call BeginGame again on the returned value to redeal.
func NewGame(rng *rand.Rand) *Game {
	g := &Game{}
	g.deal(rng)
	return g
}

// BeginGame implements cfr.Game. It deals two distinct ranks without
// replacement using a freshly-seeded worker RNG, and resets history,
// turn, and contributions to their start-of-hand values.
func (g *Game) BeginGame() {
	g.deal(cfr.NewWorkerRNG())
}

func (g *Game) deal(rng *rand.Rand) {
	p0 := Card(minRank + rng.Intn(maxRank-minRank+1))
	p1 := Card(minRank + rng.Intn(maxRank-minRank))
	if p1 >= p0 {
		p1++
	}

	g.p0Card = p0
	g.p1Card = p1
	g.history = nil
	g.contrib = [2]int{1, 1} // ante
	g.player = 0
	g.terminal = false
	g.winner = -1
}

// NumPlayers implements cfr.Game.
func (g *Game) NumPlayers() int { return 2 }

// PlayerToAct implements cfr.Game.
func (g *Game) PlayerToAct() int { return g.player }

// IsTerminal implements cfr.Game.
func (g *Game) IsTerminal() bool { return g.terminal }

// Actions implements cfr.Game.
func (g *Game) Actions() []Action {
	if g.terminal {
		return nil
	}

	if len(g.history) == 0 {
		return []Action{Bet, Check}
	}

	switch g.history[len(g.history)-1] {
	case Check:
		// The check this follows didn't terminate the hand (it was the
		// first action ever), so the second player is in the same
		// position the first player started in.
		return []Action{Bet, Check}
	case Bet:
		return []Action{CallBet, Fold, Raise}
	case Raise:
		return []Action{CallRaise, Fold}
	default:
		panic(fmt.Errorf("kuhn13: non-terminal state with unresolved history %v", g.history))
	}
}

// MakeMove implements cfr.Game.
func (g *Game) MakeMove(a Action) {
	if g.terminal {
		panic("kuhn13: MakeMove called on a terminal game")
	}

	if !isLegal(a, g.Actions()) {
		panic(fmt.Errorf("kuhn13: action %v is not legal in state with history %v", a, g.history))
	}

	switch a {
	case Bet:
		g.contrib[g.player]++
		g.history = append(g.history, a)
		g.player = 1 - g.player
	case Check:
		secondCheck := len(g.history) > 0 && g.history[len(g.history)-1] == Check
		g.history = append(g.history, a)
		if secondCheck {
			g.endShowdown()
		} else {
			g.player = 1 - g.player
		}
	case Fold:
		g.history = append(g.history, a)
		g.terminal = true
		g.winner = 1 - g.player
	case CallBet:
		g.contrib[g.player]++
		g.history = append(g.history, a)
		g.endShowdown()
	case Raise:
		g.contrib[g.player] += 3
		g.history = append(g.history, a)
		g.player = 1 - g.player
	case CallRaise:
		g.contrib[g.player] += 2
		g.history = append(g.history, a)
		g.endShowdown()
	}
}

func (g *Game) endShowdown() {
	g.terminal = true
	if g.p0Card > g.p1Card {
		g.winner = 0
	} else {
		g.winner = 1
	}
}

func isLegal(a Action, actions []Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

// Payout implements cfr.Game.
func (g *Game) Payout() []float64 {
	if !g.terminal {
		panic("kuhn13: Payout called on a non-terminal game")
	}

	pot := g.contrib[0] + g.contrib[1]
	loser := 1 - g.winner
	payout := make([]float64, 2)
	payout[g.winner] = float64(pot - g.contrib[g.winner])
	payout[loser] = -float64(g.contrib[loser])
	return payout
}

// InformationSet implements cfr.Game. It is the acting player's own card
// plus the public betting history -- nothing the opponent's card could
// reveal.
func (g *Game) InformationSet() string {
	var card Card
	if g.player == 0 {
		card = g.p0Card
	} else {
		card = g.p1Card
	}

	s := card.String() + "|"
	for i, a := range g.history {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}

	return s
}

// DeepCopy implements cfr.Game.
func (g *Game) DeepCopy() cfr.Game[Action] {
	clone := *g
	clone.history = make([]Action, len(g.history))
	copy(clone.history, g.history)
	return &clone
}
