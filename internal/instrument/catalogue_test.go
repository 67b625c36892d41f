package instrument

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gremlins-go/gremlins/internal/model"
	"github.com/gremlins-go/gremlins/internal/operators"
)

func TestBuildCatalogueAssignsDenseZeroPaddedIDs(t *testing.T) {
	findings := []*Finding{
		{
			Path: "a.go", Line: 10,
			Variants:      []operators.Variant{{Description: ">= to >"}, {Description: ">= to <"}},
			OperatorNames: []string{"comparison", "comparison"},
		},
		{
			Path: "b.go", Line: 3,
			Variants:      []operators.Variant{{Description: "true to false"}},
			OperatorNames: []string{"boolean"},
		},
	}

	cat := BuildCatalogue(findings)

	want := []model.Gremlin{
		{ID: "g001", Path: "a.go", Line: 10, Operator: "comparison", Description: ">= to >"},
		{ID: "g002", Path: "a.go", Line: 10, Operator: "comparison", Description: ">= to <"},
		{ID: "g003", Path: "b.go", Line: 3, Operator: "boolean", Description: "true to false"},
	}
	if diff := cmp.Diff(want, cat.Gremlins); diff != "" {
		t.Errorf("Gremlins mismatch (-want +got):\n%s", diff)
	}

	wantByPath := map[string][]string{
		"a.go": {"g001", "g002"},
		"b.go": {"g003"},
	}
	if diff := cmp.Diff(wantByPath, cat.ByPath); diff != "" {
		t.Errorf("ByPath mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"g001", "g002"}, findings[0].AssignedIDs); diff != "" {
		t.Errorf("AssignedIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCatalogueWidensIDsPastNineHundredNinetyNine(t *testing.T) {
	variants := make([]operators.Variant, 1000)
	opNames := make([]string, 1000)
	for i := range variants {
		opNames[i] = "comparison"
	}
	findings := []*Finding{{Path: "big.go", Line: 1, Variants: variants, OperatorNames: opNames}}

	cat := BuildCatalogue(findings)

	if got := cat.Gremlins[0].ID; got != "g0001" {
		t.Errorf("first id = %q, want g0001", got)
	}
	if got := cat.Gremlins[999].ID; got != "g1000" {
		t.Errorf("last id = %q, want g1000", got)
	}
}
