// Package report renders a completed aggregate.MutationScore into one of
// the output formats spec.md §6's --gremlin-report flag names
// (console|html|json|all), plus the two additional formats
// SPEC_FULL.md's SUPPLEMENTED FEATURES section adds from the Python
// original's reporting/ package: Stryker-mutator-compatible JSON and a
// SonarQube generic-issue import. Grounded on gooze's internal/controller
// console table rendering and the teacher's glamour-rendered markdown
// views, adapted to a single typed entrypoint instead of a UI object.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gremlins-go/gremlins/internal/aggregate"
)

// Format names one renderable report output, matching a value accepted by
// --gremlin-report.
type Format string

const (
	FormatConsole   Format = "console"
	FormatHTML      Format = "html"
	FormatJSON      Format = "json"
	FormatStryker   Format = "stryker"
	FormatSonarQube Format = "sonarqube"
	FormatAll       Format = "all"
)

// allFormats is the expansion of FormatAll, in a fixed rendering order.
var allFormats = []Format{FormatConsole, FormatHTML, FormatJSON, FormatStryker, FormatSonarQube}

// Write renders score in every requested format. Console output goes to
// stdout; every other format is written under outDir, one file per format.
// A failed format does not abort the others; once every format has been
// attempted, the first failure is returned.
func Write(score *aggregate.MutationScore, formats []string, outDir string) error {
	var warnings []error
	for _, name := range expand(formats) {
		if err := writeOne(score, name, outDir); err != nil {
			warnings = append(warnings, fmt.Errorf("report: %s: %w", name, err))
		}
	}
	if len(warnings) > 0 {
		return warnings[0]
	}
	return nil
}

func expand(formats []string) []Format {
	if len(formats) == 0 {
		return []Format{FormatConsole}
	}
	var out []Format
	for _, f := range formats {
		if Format(f) == FormatAll {
			out = append(out, allFormats...)
			continue
		}
		out = append(out, Format(f))
	}
	return out
}

func writeOne(score *aggregate.MutationScore, format Format, outDir string) error {
	switch format {
	case FormatConsole:
		RenderConsole(os.Stdout, score)
		return nil
	case FormatHTML:
		return writeFile(outDir, "report.html", func(w *os.File) error { return RenderHTML(w, score) })
	case FormatJSON:
		return writeFile(outDir, "report.json", func(w *os.File) error { return RenderJSON(w, score) })
	case FormatStryker:
		return writeFile(outDir, "mutation-report-stryker.json", func(w *os.File) error { return RenderStryker(w, score) })
	case FormatSonarQube:
		return writeFile(outDir, "sonarqube-generic-issues.json", func(w *os.File) error { return RenderSonarQube(w, score) })
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeFile(outDir, name string, render func(*os.File) error) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return render(f)
}
