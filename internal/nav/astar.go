package nav

import (
	"container/heap"
	"math"
)

type pathNode struct {
	cell   Cell
	g      uint
	f      float64
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// heuristic is the Euclidean cell distance scaled to the base step
// cost. Cardinal-only movement can never beat the straight line, so
// the estimate stays admissible.
func (g *Grid) heuristic(a, b Cell) float64 {
	dx := float64(a.X - b.X)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx+dz*dz) * baseStepCost
}

// astar searches cell-to-cell with 4-directional expansion over
// walkable cells. maxExpansions bounds the number of settled nodes;
// zero or negative means unbounded.
func (g *Grid) astar(start, goal Cell, maxExpansions int) ([]Cell, bool) {
	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{cell: start, g: 0, f: g.heuristic(start, goal)})
	gScore := map[int]uint{g.index(start.X, start.Z): 0}
	closed := make(map[int]struct{})
	expanded := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		currIdx := g.index(current.cell.X, current.cell.Z)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.cell == goal {
			return reconstructPath(current), true
		}
		expanded++
		if maxExpansions > 0 && expanded >= maxExpansions {
			return nil, false
		}

		for _, delta := range cellNeighborOffsets {
			next := Cell{X: current.cell.X + delta.X, Z: current.cell.Z + delta.Z}
			if !g.InBounds(next.X, next.Z) {
				continue
			}
			idx := g.index(next.X, next.Z)
			if !g.walkable[idx] {
				continue
			}
			if _, seen := closed[idx]; seen {
				continue
			}
			tentativeG := current.g + g.MoveCost(current.cell, next)
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			heap.Push(open, &pathNode{
				cell:   next,
				g:      tentativeG,
				f:      float64(tentativeG) + g.heuristic(next, goal),
				parent: current,
			})
		}
	}
	return nil, false
}

func reconstructPath(end *pathNode) []Cell {
	if end == nil {
		return nil
	}
	path := make([]Cell, 0)
	for node := end; node != nil; node = node.parent {
		path = append(path, node.cell)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}
