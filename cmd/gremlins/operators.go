package main

import (
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/gremlins-go/gremlins/internal/operators"
)

var operatorsFilter string

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "List the available mutation operators",
	Long: `Lists every registered mutation operator and its description, in the
fixed priority order gremlin ids are assigned in. --filter narrows the
list with a fuzzy match against operator names, for quickly locating one
in a large catalogue.`,
	RunE: runOperators,
}

func init() {
	operatorsCmd.Flags().StringVar(&operatorsFilter, "filter", "", "fuzzy-match operator names against this substring")
}

func runOperators(cmd *cobra.Command, args []string) error {
	registry := operators.NewRegistry()
	all := registry.All(nil)

	names := make([]string, len(all))
	byName := make(map[string]operators.Operator, len(all))
	for i, op := range all {
		names[i] = op.Name()
		byName[op.Name()] = op
	}

	selected := names
	if operatorsFilter != "" {
		matches := fuzzy.Find(operatorsFilter, names)
		sort.Stable(matches)
		selected = make([]string, 0, len(matches))
		for _, m := range matches {
			selected = append(selected, m.Str)
		}
	}

	if len(selected) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no operators match %q\n", operatorsFilter)
		return nil
	}

	for _, name := range selected {
		op := byName[name]
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", op.Name(), op.Description())
	}
	return nil
}
