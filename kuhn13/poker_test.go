package kuhn13

import (
	"math/rand"
	"testing"

	cfr "github.com/rivertable/cfrcore"
)

func newDealtGame(t *testing.T, p0, p1 Card) *Game {
	t.Helper()
	g := &Game{}
	g.BeginGame()
	g.p0Card = p0
	g.p1Card = p1
	return g
}

func TestDealIsDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		g := NewGame(rng)
		if g.p0Card == g.p1Card {
			t.Fatalf("deal %d produced identical cards %v", i, g.p0Card)
		}
		if g.p0Card < minRank || g.p0Card > maxRank || g.p1Card < minRank || g.p1Card > maxRank {
			t.Fatalf("deal %d produced out-of-range cards %v, %v", i, g.p0Card, g.p1Card)
		}
	}
}

func TestCheckCheck(t *testing.T) {
	g := newDealtGame(t, 10, 13) // P0=10, P1=King; P1 wins showdown.
	g.MakeMove(Check)
	g.MakeMove(Check)

	if !g.IsTerminal() {
		t.Fatal("expected terminal after Check, Check")
	}

	payout := g.Payout()
	if payout[0] != -1 || payout[1] != 1 {
		t.Errorf("payout = %v, want [-1 1]", payout)
	}
}

func TestBetCallBet(t *testing.T) {
	g := newDealtGame(t, 14, 5) // P0=Ace wins.
	g.MakeMove(Bet)
	g.MakeMove(CallBet)

	if !g.IsTerminal() {
		t.Fatal("expected terminal after Bet, CallBet")
	}

	payout := g.Payout()
	if payout[0] != 2 || payout[1] != -2 {
		t.Errorf("payout = %v, want [2 -2]", payout)
	}
}

func TestBetRaiseCallRaise(t *testing.T) {
	g := newDealtGame(t, 3, 9) // P1 wins.
	g.MakeMove(Bet)
	g.MakeMove(Raise)
	g.MakeMove(CallRaise)

	if !g.IsTerminal() {
		t.Fatal("expected terminal after Bet, Raise, CallRaise")
	}

	// contrib = [1(ante)+1(bet)+2(call-raise), 1(ante)+3(raise)] = [4, 4],
	// pot = 8, P1 wins.
	payout := g.Payout()
	if payout[0] != -4 || payout[1] != 4 {
		t.Errorf("payout = %v, want [-4 4]", payout)
	}
}

func TestFold(t *testing.T) {
	// P0 checks, P1 bets, P0 folds: P0 is the folder, so P1 wins.
	g := newDealtGame(t, 12, 13)
	g.MakeMove(Check)
	g.MakeMove(Bet)
	g.MakeMove(Fold)

	if !g.IsTerminal() {
		t.Fatal("expected terminal after Check, Bet, Fold")
	}

	// contrib = [1, 1+1] = [1, 2], pot = 3, P1 (winner) gets pot-contrib[1] = 1,
	// P0 (loser) gets -contrib[0] = -1.
	payout := g.Payout()
	if payout[0] != -1 || payout[1] != 1 {
		t.Errorf("payout = %v, want [-1 1]", payout)
	}
}

func TestZeroSum(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	plays := [][]Action{
		{Check, Check},
		{Bet, CallBet},
		{Bet, Fold},
		{Bet, Raise, CallRaise},
		{Bet, Raise, Fold},
		{Check, Bet, CallBet},
		{Check, Bet, Fold},
	}

	for _, history := range plays {
		g := NewGame(rng)
		for _, a := range history {
			g.MakeMove(a)
		}

		if !g.IsTerminal() {
			t.Fatalf("history %v did not terminate", history)
		}

		payout := g.Payout()
		sum := payout[0] + payout[1]
		if sum != 0 {
			t.Errorf("history %v: payout %v sums to %v, want 0", history, payout, sum)
		}
	}
}

func TestActionsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := NewGame(rng)

	a1 := g.Actions()
	a2 := g.Actions()
	if len(a1) != len(a2) {
		t.Fatalf("Actions is not deterministic: %v vs %v", a1, a2)
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatalf("Actions is not deterministic: %v vs %v", a1, a2)
		}
	}
}

func TestMakeMovePanicsOnIllegalAction(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MakeMove to panic on an illegal action")
		}
	}()

	rng := rand.New(rand.NewSource(4))
	g := NewGame(rng)
	g.MakeMove(CallBet) // illegal as the very first action.
}

func TestMakeMovePanicsOnTerminalGame(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MakeMove to panic on a terminal game")
		}
	}()

	g := newDealtGame(t, 10, 5)
	g.MakeMove(Check)
	g.MakeMove(Check)
	g.MakeMove(Check) // already terminal.
}

func TestPayoutPanicsOnNonTerminalGame(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Payout to panic on a non-terminal game")
		}
	}()

	rng := rand.New(rand.NewSource(5))
	g := NewGame(rng)
	g.Payout()
}

func TestInformationSetHasNoControlCharacters(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 200; i++ {
		g := NewGame(rng)
		for !g.IsTerminal() {
			infoSet := g.InformationSet()
			for _, r := range infoSet {
				if r == '\t' || r == '\n' {
					t.Fatalf("infoset %q contains a forbidden character", infoSet)
				}
			}

			actions := g.Actions()
			a := actions[rng.Intn(len(actions))]
			g.MakeMove(a)
		}
	}
}

func TestInformationSetHidesOpponentCard(t *testing.T) {
	g1 := newDealtGame(t, 14, 2)
	g2 := newDealtGame(t, 14, 13)

	if g1.InformationSet() != g2.InformationSet() {
		t.Errorf("P0's infoset should not depend on P1's card: %q vs %q",
			g1.InformationSet(), g2.InformationSet())
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGame(rng)
	g.MakeMove(g.Actions()[0])

	clone := g.DeepCopy()
	before := clone.InformationSet()

	actions := g.Actions()
	if len(actions) > 0 {
		g.MakeMove(actions[0])
	}

	if clone.InformationSet() != before {
		t.Error("DeepCopy aliased the original game's mutable state")
	}
}

func TestEnumerateInfoSetsIsFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	g := NewGame(rng)
	g.p0Card, g.p1Card = 2, 3

	infoSets := cfr.EnumerateInfoSets[Action](g)
	if len(infoSets) == 0 {
		t.Fatal("expected at least one information set")
	}
}
