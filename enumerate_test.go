package cfr

import "testing"

func TestEnumerateInfoSetsFindsBothPlayers(t *testing.T) {
	g := &matchingPennies{}
	g.BeginGame()

	infoSets := EnumerateInfoSets[toyAction](g)
	if _, ok := infoSets["p0"]; !ok {
		t.Error("expected infoset \"p0\" to be reachable")
	}
	if _, ok := infoSets["p1"]; !ok {
		t.Error("expected infoset \"p1\" to be reachable")
	}

	for infoSet, actions := range infoSets {
		if len(actions) != 2 {
			t.Errorf("infoset %q has %d actions, want 2", infoSet, len(actions))
		}
	}
}

func TestCountTerminalStates(t *testing.T) {
	g := &matchingPennies{}
	g.BeginGame()

	// Two choices for each of two sequential players: four terminal
	// leaves.
	if n := CountTerminalStates[toyAction](g); n != 4 {
		t.Errorf("CountTerminalStates = %d, want 4", n)
	}
}
