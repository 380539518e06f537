package rollup

import (
	"strings"
	"testing"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

type valueCase struct {
	name  string
	id    graph.NodeID
	preds []graph.NodeID
	vis   graph.VisState
	vals  graph.Values
	want  float32
}

func TestValue_Policy(t *testing.T) {
	cases := []valueCase{
		{
			name: "no predecessors is fully operable",
			id:   10,
			vis:  graph.VisState{10: 0}, // visibility does not matter for leaves
			want: 1.0,
		},
		{
			name:  "invisible is fully inoperable",
			id:    20,
			preds: []graph.NodeID{10},
			vis:   graph.VisState{20: 0},
			vals:  graph.Values{10: 1.0},
			want:  0.0,
		},
		{
			name:  "visible delegates to the rule",
			id:    20,
			preds: []graph.NodeID{10},
			vis:   graph.VisState{20: 1},
			vals:  graph.Values{10: 0.5},
			want:  0.5,
		},
		{
			name:  "absent from the sample delegates to the rule",
			id:    30,
			preds: []graph.NodeID{20},
			vis:   graph.VisState{20: 1},
			vals:  graph.Values{20: 0.25},
			want:  0.25,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Value(OrRule{}, tc.id, tc.preds, tc.vis, tc.vals)
			if got != tc.want {
				t.Errorf("Value = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOrRule_Combine(t *testing.T) {
	vals := graph.Values{1: 0.2, 2: 0.9, 3: 0.5}

	if got := (OrRule{}).Combine(9, []graph.NodeID{1, 2, 3}, vals); got != 0.9 {
		t.Errorf("Combine = %v, want max 0.9", got)
	}
	// A predecessor that was never rolled up short-circuits to operable.
	if got := (OrRule{}).Combine(9, []graph.NodeID{1, 42}, vals); got != 1.0 {
		t.Errorf("Combine with missing pred = %v, want 1.0", got)
	}
}

func TestAndRule_Combine(t *testing.T) {
	vals := graph.Values{1: 0.2, 2: 0.9}

	if got := (AndRule{}).Combine(9, []graph.NodeID{1, 2}, vals); got != 0.2 {
		t.Errorf("Combine = %v, want min 0.2", got)
	}
	if got := (AndRule{}).Combine(9, []graph.NodeID{2, 42}, vals); got != 0.9 {
		t.Errorf("Combine skipping missing pred = %v, want 0.9", got)
	}
}

func TestWeightedRule_Combine(t *testing.T) {
	r := &WeightedRule{Weights: graph.EdgeValues{
		{From: 1, To: 9}: 1,
		{From: 2, To: 9}: 3,
		{From: 3, To: 9}: -1, // unknown sentinel, counts as weight 1
	}}
	vals := graph.Values{1: 0.5, 2: 0.75}

	if got := r.Combine(9, []graph.NodeID{1, 2}, vals); got != 0.6875 {
		t.Errorf("Combine = %v, want (0.5+3*0.75)/4 = 0.6875", got)
	}
	vals[3] = 0.25
	if got := r.Combine(9, []graph.NodeID{1, 2, 3}, vals); got != 0.6 {
		t.Errorf("Combine with sentinel weight = %v, want (0.5+3*0.75+0.25)/5 = 0.6", got)
	}
}

func TestWeightedRule_CloneIsIndependent(t *testing.T) {
	orig := &WeightedRule{Weights: graph.EdgeValues{{From: 1, To: 2}: 4}}
	clone := orig.Clone().(*WeightedRule)
	clone.Weights[graph.EdgeKey{From: 1, To: 2}] = 99

	if orig.Weights[graph.EdgeKey{From: 1, To: 2}] != 4 {
		t.Errorf("mutating the clone changed the original weights")
	}
}

func TestPropagate_Chain(t *testing.T) {
	g := graph.NewGraph()
	for _, id := range []graph.NodeID{10, 20, 30} {
		g.AddNode(graph.Node{ID: id})
	}
	g.AddEdge(10, 20)
	g.AddEdge(20, 30)
	l := graph.NewLinks(g)
	order := []graph.NodeID{10, 20, 30}

	vals := Propagate(OrRule{}, l, order, graph.VisState{20: 1})
	if vals[30] != 1.0 {
		t.Errorf("end value with 20 visible = %v, want 1.0", vals[30])
	}
	vals = Propagate(OrRule{}, l, order, graph.VisState{20: 0})
	if vals[30] != 0.0 {
		t.Errorf("end value with 20 invisible = %v, want 0.0", vals[30])
	}
	if vals[10] != 1.0 {
		t.Errorf("leaf value = %v, want 1.0", vals[10])
	}
}

func TestRegistry(t *testing.T) {
	reg := Default()

	names := reg.Names()
	want := []string{"and", "or", "weighted"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names = %v, want %v", names, want)
		}
	}

	if _, err := reg.New("or", nil); err != nil {
		t.Errorf("New(or) error: %v", err)
	}
	_, err := reg.New("xor", nil)
	if err == nil || !strings.Contains(err.Error(), `"xor"`) {
		t.Errorf("expected unknown-rule error naming xor, got %v", err)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on duplicate registration")
		}
	}()
	reg := Default()
	reg.Register("or", func(graph.EdgeValues) Rule { return OrRule{} })
}
