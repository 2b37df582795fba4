// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_SingleNode(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("Bike")
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"Bike"}) {
		t.Errorf("expected [Bike], got %v", order)
	}
}

func TestTopologicalSort_RequiresChain(t *testing.T) {
	t.Parallel()
	g := New()
	// Carbon requires Disc, Disc requires Hydraulics.
	g.AddEdge("Carbon", "Disc")
	g.AddEdge("Disc", "Hydraulics")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"Carbon", "Disc", "Hydraulics"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestTopologicalSort_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 4 || order[0] != "A" || order[3] != "D" {
		t.Errorf("expected A first and D last, got %v", order)
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{
			name:  "two nodes",
			edges: [][2]string{{"A", "B"}, {"B", "A"}},
			want:  []string{"A", "B"},
		},
		{
			name:  "self loop",
			edges: [][2]string{{"A", "A"}},
			want:  []string{"A"},
		},
		{
			name:  "three nodes",
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "tail after cycle is not reported",
			edges: [][2]string{{"Root", "A"}, {"A", "B"}, {"B", "A"}, {"B", "Tail"}},
			want:  []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			_, err := g.TopologicalSort()
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("expected ErrCycle, got %v", err)
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if !slices.Equal(cycleErr.Cycle, tt.want) {
				t.Errorf("cycle = %v, want %v", cycleErr.Cycle, tt.want)
			}
		})
	}
}

func TestTopologicalSort_DisconnectedComponents(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddNode("C")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 nodes, got %v", order)
	}
	if slices.Index(order, "A") >= slices.Index(order, "B") {
		t.Errorf("A must come before B in %v", order)
	}
}

func TestTopologicalSort_DuplicateEdges(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"A", "B"}) {
		t.Errorf("expected [A, B], got %v", order)
	}
}

func TestReachable(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("Bike", "Frame")
	g.AddEdge("Bike", "Brakes")
	g.AddEdge("Brakes", "Disc")
	g.AddEdge("Orphan", "Disc")
	g.AddNode("Island")

	got := g.Reachable("Bike")
	want := []string{"Bike", "Frame", "Brakes", "Disc"}
	if !slices.Equal(got, want) {
		t.Errorf("Reachable(Bike) = %v, want %v", got, want)
	}
	if got := g.Reachable("Island"); !slices.Equal(got, []string{"Island"}) {
		t.Errorf("Reachable(Island) = %v, want [Island]", got)
	}
	if got := g.Reachable("Nowhere"); got != nil {
		t.Errorf("Reachable(Nowhere) = %v, want nil", got)
	}
}

func TestNodes(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("B", "A")
	g.AddNode("C")
	g.AddNode("B")

	if got := g.Nodes(); !slices.Equal(got, []string{"B", "A", "C"}) {
		t.Errorf("Nodes() = %v, want [B A C]", got)
	}
	if !g.HasNode("C") || g.HasNode("D") {
		t.Error("HasNode() mismatch")
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "C"}}
	expected := "cycle detected: A -> B -> C"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
