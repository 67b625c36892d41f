package instrument

import (
	"fmt"

	"github.com/gremlins-go/gremlins/internal/model"
)

// Catalogue is the immutable, flat, ordered list of gremlins a run produces,
// plus the secondary path->ids index, per spec.md §4.3.
type Catalogue struct {
	Gremlins []model.Gremlin
	ByPath   map[string][]string
}

// BuildCatalogue assigns dense, zero-padded ids (g001, g002, ...) to every
// variant across findings, in the order findings are given — which must be
// the deterministic per-file discovery order, files concatenated in a fixed
// order (their sorted discovery path), so that re-running on identical
// input reproduces identical ids (spec.md §4.2's determinism requirement).
// It also writes each Finding's AssignedIDs in place.
func BuildCatalogue(findings []*Finding) *Catalogue {
	total := 0
	for _, f := range findings {
		total += len(f.Variants)
	}
	width := idWidth(total)

	cat := &Catalogue{ByPath: make(map[string][]string)}
	counter := 0
	for _, f := range findings {
		ids := make([]string, len(f.Variants))
		for i, v := range f.Variants {
			counter++
			id := fmt.Sprintf("g%0*d", width, counter)
			ids[i] = id
			cat.Gremlins = append(cat.Gremlins, model.Gremlin{
				ID:          id,
				Path:        f.Path,
				Line:        f.Line,
				Operator:    f.OperatorNames[i],
				Description: v.Description,
			})
			cat.ByPath[f.Path] = append(cat.ByPath[f.Path], id)
		}
		f.AssignedIDs = ids
	}
	return cat
}

// idWidth picks the zero-pad width: at least 3 digits (matching spec.md's
// g001 examples), wider if the run has more than 999 gremlins.
func idWidth(total int) int {
	width := 3
	for n := 1000; n <= total; n *= 10 {
		width++
	}
	return width
}
