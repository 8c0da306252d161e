// Package liarsdice implements two-player, five-dice-per-hand Liar's
// Dice: each player rolls five dice, then players alternate making bids
// of the form "at least c dice showing face f across both hands" until
// one of them ends the round with CHALLENGE or SPOT_ON.
package liarsdice

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rivertable/cfrcore"
)

const (
	numDice      = 5
	numFaces     = 6
	playersCount = 2
	// NMax is the bid-count cap past which only CHALLENGE and SPOT_ON
	// are legal, regardless of whether a further bid would otherwise be
	// valid.
	NMax = 20
)

// Action is Liar's Dice's action alphabet: every legal bid (count, face)
// packed into a small non-negative int, plus two reserved sentinels.
type Action int

const (
	// Challenge claims the current bid's count is not met.
	Challenge Action = -1
	// SpotOn claims the current bid's count is met exactly.
	SpotOn Action = -2
	// none marks an empty slot in the sliding bid window; it is not a
	// legal action and is never returned by Actions.
	none Action = -3
)

// Bid packs a (count, face) pair, 1<=count<=6 and 1<=face<=6, into an
// Action. Bids compare lexicographically by (count, face) using ordinary
// integer comparison, because face varies faster than count in the
// packing.
func Bid(count, face int) Action {
	return Action((count-1)*numFaces + (face - 1))
}

// IsBid reports whether a is a bid, as opposed to CHALLENGE or SpotOn.
func (a Action) IsBid() bool {
	return a >= 0
}

// CountFace unpacks a bid into its count and face. It panics if a is not
// a bid.
func (a Action) CountFace() (count, face int) {
	if !a.IsBid() {
		panic(fmt.Errorf("liarsdice: %v is not a bid", a))
	}
	return int(a)/numFaces + 1, int(a)%numFaces + 1
}

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case Challenge:
		return "CHALLENGE"
	case SpotOn:
		return "SPOT_ON"
	case none:
		return "-"
	default:
		c, f := a.CountFace()
		return fmt.Sprintf("BID(%d,%d)", c, f)
	}
}

// Game is one round of two-player, five-dice Liar's Dice.
type Game struct {
	hands [playersCount][numDice]int

	lastBid    Action
	hasLastBid bool
	numBids    int
	window     [3]Action // most-recent-first, zero-padded with none.

	player   int
	terminal bool
	winner   int
}

var _ cfr.Game[Action] = &Game{}

// BeginGame implements cfr.Game: each player rolls five dice uniformly at
// random, and the bidding history resets.
func (g *Game) BeginGame() {
	rng := cfr.NewWorkerRNG()
	for p := 0; p < playersCount; p++ {
		for i := 0; i < numDice; i++ {
			g.hands[p][i] = 1 + rng.Intn(numFaces)
		}
	}

	g.lastBid = 0
	g.hasLastBid = false
	g.numBids = 0
	g.window = [3]Action{none, none, none}
	g.player = 0
	g.terminal = false
	g.winner = -1
}

// NumPlayers implements cfr.Game.
func (g *Game) NumPlayers() int { return playersCount }

// PlayerToAct implements cfr.Game.
func (g *Game) PlayerToAct() int { return g.player }

// IsTerminal implements cfr.Game.
func (g *Game) IsTerminal() bool { return g.terminal }

// Actions implements cfr.Game. Once NMax bids have been made only
// CHALLENGE and SPOT_ON are legal. Before any bid, every bid is legal.
// Otherwise, if the last bid's count exceeds 5 plus the acting player's
// own count of its face, only CHALLENGE is legal; if not, every bid
// strictly greater than the last one is legal, followed by CHALLENGE and
// SPOT_ON.
func (g *Game) Actions() []Action {
	if g.terminal {
		return nil
	}

	if g.numBids >= NMax {
		return []Action{Challenge, SpotOn}
	}

	if !g.hasLastBid {
		return allBids()
	}

	count, face := g.lastBid.CountFace()
	own := faceCount(g.hands[g.player], face)
	maxPossible := (playersCount-1)*numDice + own
	if count > maxPossible {
		// The current bid cannot possibly be truthful given what the
		// acting player holds; the solver never even sees the other
		// bids as an option.
		return []Action{Challenge}
	}

	legal := make([]Action, 0, numDice*numFaces)
	for c := 1; c <= numDice+1; c++ {
		for f := 1; f <= numFaces; f++ {
			b := Bid(c, f)
			if b > g.lastBid {
				legal = append(legal, b)
			}
		}
	}
	legal = append(legal, Challenge, SpotOn)
	return legal
}

func allBids() []Action {
	bids := make([]Action, 0, (numDice+1)*numFaces)
	for c := 1; c <= numDice+1; c++ {
		for f := 1; f <= numFaces; f++ {
			bids = append(bids, Bid(c, f))
		}
	}
	return bids
}

func isLegal(a Action, actions []Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

// MakeMove implements cfr.Game.
func (g *Game) MakeMove(a Action) {
	if g.terminal {
		panic("liarsdice: MakeMove called on a terminal game")
	}

	if !isLegal(a, g.Actions()) {
		panic(fmt.Errorf("liarsdice: action %v is not legal for player %d", a, g.player))
	}

	// The sliding window shifts for every action, terminal actions
	// included -- preserved from the source behavior this implementation
	// is grounded on. It is inert: the window's only reader is
	// InformationSet, and no InformationSet is ever computed again once
	// a CHALLENGE or SPOT_ON has ended the round.
	g.window = [3]Action{a, g.window[0], g.window[1]}

	switch a {
	case Challenge:
		g.resolveChallenge()
	case SpotOn:
		g.resolveSpotOn()
	default:
		g.lastBid = a
		g.hasLastBid = true
		g.numBids++
		g.player = 1 - g.player
	}
}

func (g *Game) resolveChallenge() {
	count, face := g.lastBid.CountFace()
	actual := g.totalFaceCount(face)
	bidder := 1 - g.player
	g.terminal = true
	if actual >= count {
		g.winner = bidder
	} else {
		g.winner = g.player
	}
}

func (g *Game) resolveSpotOn() {
	count, face := g.lastBid.CountFace()
	actual := g.totalFaceCount(face)
	bidder := 1 - g.player
	g.terminal = true
	if actual == count {
		g.winner = g.player
	} else {
		g.winner = bidder
	}
}

func (g *Game) totalFaceCount(face int) int {
	return faceCount(g.hands[0], face) + faceCount(g.hands[1], face)
}

// Payout implements cfr.Game: +-1, zero-sum, independent of the bid count
// involved in the resolution.
func (g *Game) Payout() []float64 {
	if !g.terminal {
		panic("liarsdice: Payout called on a non-terminal game")
	}

	payout := make([]float64, playersCount)
	payout[g.winner] = 1
	payout[1-g.winner] = -1
	return payout
}

// InformationSet implements cfr.Game: the acting player's own hand, a
// turn-limit marker, and the sliding three-bid window -- nothing else
// from the earlier history is retained, which is a deliberate abstraction
// that keeps the number of information sets finite, not an oversight.
func (g *Game) InformationSet() string {
	limit := "0"
	if g.numBids >= NMax {
		limit = "1"
	}

	return fmt.Sprintf("%s|%s|%s,%s,%s",
		handKey(g.hands[g.player]), limit,
		g.window[0], g.window[1], g.window[2])
}

// DeepCopy implements cfr.Game. Every field of Game is a fixed-size array
// or scalar, so a plain struct copy is already an independent value.
func (g *Game) DeepCopy() cfr.Game[Action] {
	clone := *g
	return &clone
}

type faceCountKey struct {
	hand int
	face int
}

// faceCountCache memoizes counts of a face within a hand encoding. It is
// process-wide and never invalidated: the mapping is a pure function of
// (hand, face), so nothing ever needs to evict it.
var faceCountCache sync.Map // faceCountKey -> int

func faceCount(hand [numDice]int, face int) int {
	key := faceCountKey{hand: packHand(hand), face: face}
	if v, ok := faceCountCache.Load(key); ok {
		return v.(int)
	}

	count := 0
	for _, d := range hand {
		if d == face {
			count++
		}
	}

	faceCountCache.Store(key, count)
	return count
}

// packHand losslessly encodes a hand's five faces, descending, as the
// decimal integer formed by concatenating them -- e.g. {6,6,5,2,1} packs
// to 66521.
func packHand(hand [numDice]int) int {
	sorted := sortedDescending(hand)
	n := 0
	for _, d := range sorted {
		n = n*10 + d
	}
	return n
}

func handKey(hand [numDice]int) string {
	sorted := sortedDescending(hand)
	var b [numDice]byte
	for i, d := range sorted {
		b[i] = byte('0' + d)
	}
	return string(b[:])
}

func sortedDescending(hand [numDice]int) [numDice]int {
	sorted := hand
	s := sorted[:]
	sort.Sort(sort.Reverse(sort.IntSlice(s)))
	return sorted
}
