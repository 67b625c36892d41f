package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/gremlins-go/gremlins/internal/aggregate"
)

// RenderSurvivorsMarkdown builds a Markdown digest of the top survivors
// (severity order, already sorted by aggregate.Aggregator.Score) and
// renders it through glamour the same way the teacher's chat view renders
// assistant Markdown to the terminal.
func RenderSurvivorsMarkdown(score *aggregate.MutationScore) (string, error) {
	var md strings.Builder
	md.WriteString("# Surviving gremlins\n\n")
	md.WriteString("| id | operator | file | line | description |\n")
	md.WriteString("|---|---|---|---|---|\n")

	limit := len(score.Survivors)
	if limit > 25 {
		limit = 25
	}
	for _, g := range score.Survivors[:limit] {
		md.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n", g.ID, g.Operator, g.Path, g.Line, g.Description))
	}
	if len(score.Survivors) > limit {
		md.WriteString(fmt.Sprintf("\n_...and %d more._\n", len(score.Survivors)-limit))
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("report: build markdown renderer: %w", err)
	}
	return renderer.Render(md.String())
}
