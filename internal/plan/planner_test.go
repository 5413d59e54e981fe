package plan

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataplan/internal/declare"
	"dataplan/internal/diagnostic"
	"dataplan/internal/expand"
	"dataplan/internal/policy"
	"dataplan/internal/schema"
	"dataplan/internal/schema/schematest"
)

func resolve(t *testing.T, e *expand.Expander, objects ...string) []expand.Resolved {
	t.Helper()

	decls := make([]declare.Declaration, 0, len(objects))
	for _, o := range objects {
		decls = append(decls, declare.Declaration{
			Object: declare.LiteralObject{Name: o},
			Fields: []declare.FieldSelector{declare.FieldGroupSelector{Group: declare.FieldsAll}},
		})
	}

	diags := &diagnostic.Diagnostics{}
	out, err := e.Expand(decls, diags)
	require.NoError(t, err)

	return out
}

func planFor(t *testing.T, c schema.Catalog, pol *policy.Policy, chooser Chooser, decls ...expand.Resolved) *Plan {
	t.Helper()

	e := expand.New(c, pol, expand.Options{Strict: true})

	p, err := NewPlanner(c, e, chooser).Plan(context.Background(), decls)
	require.NoError(t, err)
	requireValidOrder(t, p)

	return p
}

// requireValidOrder checks that every unbroken edge points backwards and
// every mandatory target is included.
func requireValidOrder(t *testing.T, p *Plan) {
	t.Helper()

	require.Len(t, p.Order, len(p.Declarations), spew.Sdump(p))

	for from, edges := range p.Graph {
		for _, e := range edges {
			if e.Mandatory {
				require.True(t, p.Includes(e.To), "mandatory target %s of %s.%s missing\n%s", e.To, from, e.Field, spew.Sdump(p))
			}

			if e.IsSelf() || !p.Includes(e.To) || p.IsBroken(e.From, e.Field) {
				continue
			}

			require.Less(t, p.Position(e.To), p.Position(e.From),
				"%s.%s -> %s placed out of order\n%s", e.From, e.Field, e.To, spew.Sdump(p.Order, p.Broken))
		}
	}
}

func cycleSchema() *schema.Snapshot {
	return schema.MustSnapshot(
		schematest.Object("A", schematest.Required("Name"), schematest.MandatoryLookup("lookupToB", "B")),
		schematest.Object("B", schematest.Required("Name"), schematest.MandatoryLookup("lookupToA", "A")),
		schematest.Object("C", schematest.Required("Name"), schematest.MandatoryLookup("lookupToA", "A")),
	)
}

func TestPlan_PullsInMandatoryTarget(t *testing.T) {
	c := schematest.Org()
	e := expand.New(c, nil, expand.Options{Strict: true})

	diags := &diagnostic.Diagnostics{}
	decls, err := e.Expand([]declare.Declaration{{
		Object: declare.LiteralObject{Name: "Contact"},
		Fields: []declare.FieldSelector{declare.LiteralField{Name: "AccountId"}},
	}}, diags)
	require.NoError(t, err)

	p := planFor(t, c, nil, nil, decls...)

	assert.Equal(t, []string{"Account", "Contact"}, p.Order)
	assert.Empty(t, p.Broken)
	assert.Equal(t, []string{"Account"}, p.Synthesized())
	assert.Equal(t, []string{"Name"}, p.Declarations["Account"].Fields)
	assert.True(t, p.Diagnostics.Has("object_pulled_in"))
}

func TestPlan_MandatoryCycleBrokenAtAnchor(t *testing.T) {
	c := cycleSchema()
	e := expand.New(c, nil, expand.Options{Strict: true})

	p := planFor(t, c, nil, Automatic{Anchors: []string{"A"}}, resolve(t, e, "A", "B")...)

	assert.Equal(t, []string{"A", "B"}, p.Order)
	assert.Equal(t, []graphEdge{{From: "A", To: "B", Field: "lookupToB", Mandatory: true}}, edges(p))
	assert.Len(t, p.Diagnostics.ByCode("cycle_broken"), 1)
}

func TestPlan_OnlyCycleMembersAreCandidates(t *testing.T) {
	c := cycleSchema()
	e := expand.New(c, nil, expand.Options{Strict: true})

	var offered []string

	chooser := ChooserFunc(func(_ context.Context, candidates []string) (string, error) {
		offered = append(offered, candidates...)
		return "B", nil
	})

	p := planFor(t, c, nil, chooser, resolve(t, e, "A", "B", "C")...)

	assert.Equal(t, []string{"A", "B"}, offered)
	assert.Equal(t, []string{"B", "A", "C"}, p.Order)
	assert.Equal(t, []graphEdge{{From: "B", To: "A", Field: "lookupToA", Mandatory: true}}, edges(p))
}

func TestPlan_ScriptedChoicesReplay(t *testing.T) {
	c := cycleSchema()
	e := expand.New(c, nil, expand.Options{Strict: true})
	decls := resolve(t, e, "A", "B", "C")

	first := planFor(t, c, nil, &Scripted{Choices: []string{"B"}}, decls...)
	second := planFor(t, c, nil, &Scripted{Choices: []string{"B"}}, decls...)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestPlan_OptionalCycleNeedsNoChooser(t *testing.T) {
	c := schema.MustSnapshot(
		schematest.Object("Left__c", schematest.Required("Name"), schematest.OptionalLookup("Right__c", "Right__c")),
		schematest.Object("Right__c", schematest.Required("Name"), schematest.OptionalLookup("Left__c", "Left__c")),
	)
	e := expand.New(c, nil, expand.Options{Strict: true})

	chooser := ChooserFunc(func(context.Context, []string) (string, error) {
		return "", errors.New("must not be asked")
	})

	p := planFor(t, c, nil, chooser, resolve(t, e, "Left__c", "Right__c")...)

	assert.Equal(t, []string{"Left__c", "Right__c"}, p.Order)
	assert.Equal(t, []graphEdge{{From: "Left__c", To: "Right__c", Field: "Right__c"}}, edges(p))
	assert.False(t, p.Diagnostics.Has("cycle_broken"))
}

func TestPlan_OptionalBreakStaysInsideCycle(t *testing.T) {
	c := schema.MustSnapshot(
		schematest.Object("A__c", schematest.Required("Name"), schematest.OptionalLookup("Y__c", "Y__c")),
		schematest.Object("Y__c", schematest.Required("Name"), schematest.OptionalLookup("Z__c", "Z__c")),
		schematest.Object("Z__c", schematest.Required("Name"), schematest.OptionalLookup("Y__c", "Y__c")),
	)
	e := expand.New(c, nil, expand.Options{Strict: true})

	p := planFor(t, c, nil, nil, resolve(t, e, "A__c", "Y__c", "Z__c")...)

	assert.Equal(t, []string{"Y__c", "Z__c", "A__c"}, p.Order)
	assert.Equal(t, []graphEdge{{From: "Y__c", To: "Z__c", Field: "Z__c"}}, edges(p))
}

func TestPlan_OptionalBreakWaitsForDownstreamCycle(t *testing.T) {
	// Left/Right only point at Up/Down, which must be resolved first.
	c := schema.MustSnapshot(
		schematest.Object("Left__c", schematest.Required("Name"),
			schematest.OptionalLookup("Right__c", "Right__c"), schematest.OptionalLookup("Up__c", "Up__c")),
		schematest.Object("Right__c", schematest.Required("Name"), schematest.OptionalLookup("Left__c", "Left__c")),
		schematest.Object("Up__c", schematest.Required("Name"), schematest.OptionalLookup("Down__c", "Down__c")),
		schematest.Object("Down__c", schematest.Required("Name"), schematest.OptionalLookup("Up__c", "Up__c")),
	)
	e := expand.New(c, nil, expand.Options{Strict: true})

	p := planFor(t, c, nil, nil, resolve(t, e, "Left__c", "Right__c", "Up__c", "Down__c")...)

	assert.Equal(t, []string{"Down__c", "Up__c", "Left__c", "Right__c"}, p.Order)
	assert.Equal(t, []graphEdge{
		{From: "Down__c", To: "Up__c", Field: "Up__c"},
		{From: "Left__c", To: "Right__c", Field: "Right__c"},
	}, edges(p))
}

func TestPlan_SelfReferenceNeverBlocks(t *testing.T) {
	c := schematest.Org()
	e := expand.New(c, nil, expand.Options{Strict: true})

	p := planFor(t, c, nil, nil, resolve(t, e, "Account", "Contact")...)

	assert.Equal(t, []string{"Account", "Contact"}, p.Order)
	assert.Empty(t, p.Broken)

	assert.Contains(t, p.Graph["Contact"], graphEdge{From: "Contact", To: "Contact", Field: "ReportsToId"})
}

func TestPlan_PolymorphicPullsNothingIn(t *testing.T) {
	c := schematest.Org()
	e := expand.New(c, nil, expand.Options{Strict: true})

	p := planFor(t, c, nil, nil, resolve(t, e, "Event")...)

	assert.Equal(t, []string{"Event"}, p.Order)
	assert.Empty(t, p.Graph["Event"])
}

func TestPlan_ExcludedOrMissingTargetDropsField(t *testing.T) {
	c := schema.MustSnapshot(
		schematest.Object("Invoice__c",
			schematest.Required("Name"),
			schematest.MandatoryLookup("Approver__c", "Approver__c"),
			schematest.MandatoryLookup("Ghost__c", "Ghost__c")),
		schematest.Object("Approver__c", schematest.Required("Name")),
	)
	pol := policy.New(policy.WithExcludedObjects("Approver__c"))
	e := expand.New(c, pol, expand.Options{Strict: true})

	p := planFor(t, c, pol, nil, resolve(t, e, "Invoice__c")...)

	assert.Equal(t, []string{"Invoice__c"}, p.Order)
	assert.Equal(t, []string{"Name"}, p.Declarations["Invoice__c"].Fields)
	assert.Empty(t, p.Graph["Invoice__c"])
	assert.True(t, p.Diagnostics.Has("mandatory_target_excluded"))
	assert.True(t, p.Diagnostics.Has("mandatory_target_missing"))
}

func TestPlan_ChooserFailureIsCycleError(t *testing.T) {
	c := cycleSchema()
	e := expand.New(c, nil, expand.Options{Strict: true})
	decls := resolve(t, e, "A", "B", "C")

	aborted := errors.New("operator aborted")

	tests := []struct {
		name    string
		chooser Chooser
		is      error
	}{
		{"error", ChooserFunc(func(context.Context, []string) (string, error) { return "", aborted }), aborted},
		{"outside candidates", ChooserFunc(func(context.Context, []string) (string, error) { return "C", nil }), nil},
		{"exhausted script", &Scripted{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlanner(c, e, tt.chooser).Plan(context.Background(), decls)
			require.Error(t, err)

			var cycleErr *CycleError
			require.ErrorAs(t, err, &cycleErr)
			assert.Equal(t, []string{"A", "B", "C"}, cycleErr.Remaining)

			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestPlan_CanceledContext(t *testing.T) {
	c := cycleSchema()
	e := expand.New(c, nil, expand.Options{Strict: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPlanner(c, e, nil).Plan(ctx, resolve(t, e, "A"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlan_TerminatesOnDenseCycles(t *testing.T) {
	const n = 9

	objs := make([]*schema.Object, 0, n)
	names := make([]string, 0, n)

	for i := range n {
		name := fmt.Sprintf("Obj%d__c", i)
		names = append(names, name)
		objs = append(objs, schematest.Object(name,
			schematest.Required("Name"),
			schematest.MandatoryLookup("Next__c", fmt.Sprintf("Obj%d__c", (i+1)%n)),
			schematest.MandatoryLookup("Skip__c", fmt.Sprintf("Obj%d__c", (i+3)%n)),
			schematest.OptionalLookup("Back__c", fmt.Sprintf("Obj%d__c", (i+n-1)%n)),
		))
	}

	c := schema.MustSnapshot(objs...)
	e := expand.New(c, nil, expand.Options{Strict: true})

	p := planFor(t, c, nil, nil, resolve(t, e, names...)...)

	assert.Len(t, p.Order, n)
	assert.NotEmpty(t, p.Broken)

	again := planFor(t, c, nil, nil, resolve(t, e, names...)...)
	assert.Empty(t, cmp.Diff(p, again))
}

func TestPlan_ClosureIsTransitive(t *testing.T) {
	c := schema.MustSnapshot(
		schematest.Object("Line__c", schematest.Required("Name"), schematest.MandatoryLookup("Order__c", "Order__c")),
		schematest.Object("Order__c", schematest.Required("Name"), schematest.MandatoryLookup("Account__c", "Account")),
		schematest.Object("Account", schematest.Required("Name"), schematest.Optional("Description")),
	)
	e := expand.New(c, nil, expand.Options{Strict: true})

	p := planFor(t, c, nil, nil, resolve(t, e, "Line__c")...)

	assert.Equal(t, []string{"Account", "Order__c", "Line__c"}, p.Order)
	assert.Equal(t, []string{"Account", "Order__c"}, []string{p.Synthesized()[0], p.Synthesized()[1]})
	assert.Equal(t, []string{"Name"}, p.Declarations["Account"].Fields)
	assert.Equal(t, []string{"Account__c", "Name"}, p.Declarations["Order__c"].Fields)
}
