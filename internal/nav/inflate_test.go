package nav

import (
	"reflect"
	"testing"
)

func TestInflateZeroRadiusIsIdentical(t *testing.T) {
	grid := flatGrid(t, 8, 8, 1)
	grid.Block(Cell{X: 3, Z: 3}, 120)

	clone := grid.Inflate(0)
	if !reflect.DeepEqual(grid.walkable, clone.walkable) {
		t.Fatal("walkability should be bitwise identical for zero-radius inflation")
	}
	if !reflect.DeepEqual(grid.heights, clone.heights) {
		t.Fatal("heights should be bitwise identical")
	}
	if !reflect.DeepEqual(grid.priority, clone.priority) {
		t.Fatal("priorities should be bitwise identical")
	}
}

func TestInflateDilatesBlockedCells(t *testing.T) {
	grid := flatGrid(t, 8, 8, 1)
	seed := Cell{X: 4, Z: 4}
	grid.Block(seed, 150)

	// Agent radius 0.5 with cellSize 1 quantizes to one cell: the
	// seed plus its four cardinal neighbors (diagonals sit at
	// distance sqrt(2) > 1).
	inflated := grid.Inflate(0.5)

	blocked := []Cell{seed, {3, 4}, {5, 4}, {4, 3}, {4, 5}}
	for _, c := range blocked {
		if inflated.Walkable(c) {
			t.Fatalf("cell %+v should be blocked after dilation", c)
		}
	}
	open := []Cell{{3, 3}, {5, 5}, {3, 5}, {5, 3}, {2, 4}}
	for _, c := range open {
		if !inflated.Walkable(c) {
			t.Fatalf("cell %+v should stay walkable after dilation", c)
		}
	}
}

func TestInflateReadsOriginalNotClone(t *testing.T) {
	// Two seeds three cells apart with a one-cell dilation: if the
	// dilation chained off freshly blocked clone cells, the gap cell
	// between them would eventually block too.
	grid := flatGrid(t, 9, 9, 1)
	grid.Block(Cell{X: 2, Z: 4}, 100)
	grid.Block(Cell{X: 6, Z: 4}, 100)

	inflated := grid.Inflate(0.5)
	if !inflated.Walkable(Cell{X: 4, Z: 4}) {
		t.Fatal("dilation must read seeds from the original grid only")
	}
}

func TestInflateLeavesOriginalUntouched(t *testing.T) {
	grid := flatGrid(t, 8, 8, 1)
	grid.Block(Cell{X: 4, Z: 4}, 150)
	_ = grid.Inflate(2)

	if grid.Walkable(Cell{X: 2, Z: 4}) != true {
		t.Fatal("inflating must not mutate the source grid")
	}
}

func TestInflationCellRadiusQuantizes(t *testing.T) {
	grid := flatGrid(t, 4, 4, 2)
	for _, tc := range []struct {
		radius float32
		want   int
	}{
		{radius: 0, want: 0},
		{radius: 0.5, want: 1},
		{radius: 2, want: 1},
		{radius: 2.1, want: 2},
	} {
		if got := grid.InflationCellRadius(tc.radius); got != tc.want {
			t.Fatalf("radius %v: expected %d cells, got %d", tc.radius, tc.want, got)
		}
	}
}
