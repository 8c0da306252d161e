package cfr

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Summarize writes one line per information set in t to w:
//
//	<infoset>\t<action>=<probability> <action>=<probability> ...
//
// Infosets are written in the same lexicographic order as the checkpoint
// format. actionsByInfoSet maps an infoset key to the action list that
// was legal there (typically the result of EnumerateInfoSets); an infoset
// present in t but absent from actionsByInfoSet is labeled by index
// instead of action name.
//
// This is a generic, game-agnostic stand-in for the per-game strategy
// dumps used ad hoc in this lineage's earlier Python prototype.
func Summarize[A Action](w io.Writer, t *Table, actionsByInfoSet map[string][]A) error {
	keys := t.sortedInfoSets()
	sort.Strings(keys)

	for _, infoSet := range keys {
		regrets := t.regretsFor(infoSet)
		strategy := regretMatchingStrategy(regrets)
		actions := actionsByInfoSet[infoSet]

		if _, err := fmt.Fprint(w, infoSet); err != nil {
			return errors.Wrap(err, "cfr: writing summary")
		}

		for i, p := range strategy {
			label := fmt.Sprintf("%d", i)
			if i < len(actions) {
				label = actions[i].String()
			}

			sep := "\t"
			if i > 0 {
				sep = " "
			}

			if _, err := fmt.Fprintf(w, "%s%s=%.4f", sep, label, p); err != nil {
				return errors.Wrap(err, "cfr: writing summary")
			}
		}

		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return errors.Wrap(err, "cfr: writing summary")
		}
	}

	return nil
}
