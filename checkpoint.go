package cfr

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// maxPartBytes is the largest a single checkpoint part file is allowed to
// grow to before the writer rolls over to the next part. It is a var,
// not a const, so tests can shrink it rather than writing 50 MiB to
// exercise the rollover.
var maxPartBytes int64 = 50 * 1024 * 1024 // 50 MiB

const (
	header       = "REGRETS"
	trailerMore  = "CONTINUED"
	trailerFinal = "END"
)

// partPath returns the filename of checkpoint part n of the checkpoint
// rooted at path: part 0 is the base filename itself, part n>=1 uses
// suffix "_n".
func partPath(path string, n int) string {
	if n == 0 {
		return path
	}
	return fmt.Sprintf("%s_%d", path, n)
}

// Save writes t to path as a textual, line-oriented checkpoint, split
// across one or more parts of at most 50 MiB each. Infosets are written
// in lexicographic order so that a round-tripped table compares equal to
// the original regardless of map iteration order.
func Save(path string, t *Table) error {
	keys := t.sortedInfoSets()

	part := 0
	idx := 0
	for {
		name := partPath(path, part)
		f, err := os.Create(name)
		if err != nil {
			return errors.Wrapf(err, "cfr: creating checkpoint part %d", part)
		}

		w := bufio.NewWriter(f)
		if _, err := w.WriteString(header + "\n"); err != nil {
			f.Close()
			return errors.Wrapf(err, "cfr: writing checkpoint part %d", part)
		}

		written := int64(len(header) + 1)
		for idx < len(keys) {
			line := formatLine(keys[idx], t.regretsFor(keys[idx]))
			// Reserve room for the trailer line so the finished part stays
			// within maxPartBytes.
			if written+int64(len(line))+int64(len(trailerMore)+1) > maxPartBytes && written > int64(len(header)+1) {
				break
			}

			if _, err := w.WriteString(line); err != nil {
				f.Close()
				return errors.Wrapf(err, "cfr: writing checkpoint part %d", part)
			}

			written += int64(len(line))
			idx++
		}

		if idx >= len(keys) {
			_, werr := w.WriteString(trailerFinal + "\n")
			if werr == nil {
				werr = w.Flush()
			}
			f.Close()
			if werr != nil {
				return errors.Wrapf(werr, "cfr: finishing checkpoint part %d", part)
			}

			glog.Infof("cfr: saved %d infosets across %d checkpoint part(s) to %s", len(keys), part+1, path)
			return nil
		}

		_, werr := w.WriteString(trailerMore + "\n")
		if werr == nil {
			werr = w.Flush()
		}
		f.Close()
		if werr != nil {
			return errors.Wrapf(werr, "cfr: finishing checkpoint part %d", part)
		}

		part++
	}
}

func formatLine(infoSet string, regrets []float64) string {
	var b strings.Builder
	b.WriteString(infoSet)
	b.WriteByte('\t')
	for i, r := range regrets {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(r, 'g', -1, 64))
	}
	b.WriteByte('\n')
	return b.String()
}

// Load reads the checkpoint rooted at path back into a new Table. A
// missing subsequent part, a header that isn't REGRETS, or a malformed
// regret line is a load failure; per this package's error-handling
// policy the caller is expected to discard whatever Load returns and
// start from an empty Table.
func Load(path string) (*Table, error) {
	t := NewTable()

	part := 0
	for {
		name := partPath(path, part)
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.Wrapf(err, "cfr: opening checkpoint part %d", part)
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

		if !scanner.Scan() {
			f.Close()
			return nil, errors.Errorf("cfr: checkpoint part %d is empty", part)
		}
		if scanner.Text() != header {
			f.Close()
			return nil, errors.Errorf("cfr: checkpoint part %d has header %q, want %q", part, scanner.Text(), header)
		}

		final := false
		for scanner.Scan() {
			line := scanner.Text()
			if line == trailerMore {
				break
			}
			if line == trailerFinal {
				final = true
				break
			}

			infoSet, regrets, perr := parseLine(line)
			if perr != nil {
				f.Close()
				return nil, errors.Wrapf(perr, "cfr: parsing checkpoint part %d", part)
			}

			t.entries[infoSet] = &regretEntry{regrets: regrets}
		}

		if err := scanner.Err(); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "cfr: reading checkpoint part %d", part)
		}

		f.Close()
		if final {
			return t, nil
		}

		part++
	}
}

func parseLine(line string) (string, []float64, error) {
	tabIdx := strings.IndexByte(line, '\t')
	if tabIdx < 0 {
		return "", nil, errors.Errorf("missing tab separator in line %q", line)
	}

	infoSet := line[:tabIdx]
	fields := strings.Fields(line[tabIdx+1:])
	if len(fields) == 0 {
		return "", nil, errors.Errorf("no regret values for infoset %q", infoSet)
	}

	regrets := make([]float64, len(fields))
	for i, field := range fields {
		r, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return "", nil, errors.Wrapf(err, "parsing regret %d for infoset %q", i, infoSet)
		}
		regrets[i] = r
	}

	return infoSet, regrets, nil
}

// LoadOrEmpty attempts to load the checkpoint at path. On any failure
// (including a missing checkpoint, which is the common case for a first
// run) it logs once and returns a fresh, empty Table rather than
// propagating the error -- this package's caller-facing recovery policy
// for a corrupt or absent checkpoint.
func LoadOrEmpty(path string) *Table {
	t, err := Load(path)
	if err != nil {
		glog.Errorf("cfr: could not load checkpoint %s, starting from an empty table: %v", path, err)
		return NewTable()
	}

	return t
}
