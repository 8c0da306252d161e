package cfr

// EnumerateInfoSets walks every state reachable by repeatedly applying
// legal actions from g (which must already be a concrete, dealt state --
// callers typically pass a game just after BeginGame) and returns every
// information set encountered, mapped to the actions legal there.
//
// It never mutates g: every step deep-copies before applying a move. It
// is a testing and inspection helper -- used to check the information-set
// discipline invariant (two states sharing what the acting player knows
// must share a key) and to label Summarize's output with real
// action names instead of bare indices.
func EnumerateInfoSets[A Action](g Game[A]) map[string][]A {
	seen := make(map[string][]A)
	walkInfoSets(g, seen)
	return seen
}

func walkInfoSets[A Action](g Game[A], seen map[string][]A) {
	if g.IsTerminal() {
		return
	}

	infoSet := g.InformationSet()
	actions := g.Actions()
	if _, ok := seen[infoSet]; !ok {
		seen[infoSet] = actions
	}

	for _, a := range actions {
		child := g.DeepCopy()
		child.MakeMove(a)
		walkInfoSets(child, seen)
	}
}

// CountTerminalStates returns the number of terminal states reachable
// from g by repeated legal play.
func CountTerminalStates[A Action](g Game[A]) int {
	if g.IsTerminal() {
		return 1
	}

	total := 0
	for _, a := range g.Actions() {
		child := g.DeepCopy()
		child.MakeMove(a)
		total += CountTerminalStates(child)
	}

	return total
}
