package companion

import (
	"container/heap"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
	"github.com/zero-day-ai/pathbridge/protocol"
)

// DefaultGridSize bounds the simulated grid in both directions.
const DefaultGridSize = 64

type point struct{ x, y int }

// Sim answers companion requests over an 8-connected grid. Straight steps
// cost 1 and diagonal steps cost sqrt(2). It implements protocol.Handler.
type Sim struct {
	width, height int
	blocked       map[point]bool
	out           io.Writer

	mu     sync.Mutex
	total  float64
	routes int
}

// SimOption configures a Sim.
type SimOption func(*Sim)

// WithGrid sets the grid size.
func WithGrid(width, height int) SimOption {
	return func(s *Sim) {
		s.width, s.height = width, height
	}
}

// WithBlocked marks cells as impassable.
func WithBlocked(cells ...string) SimOption {
	return func(s *Sim) {
		for _, c := range cells {
			x, y, err := protocol.ParseCell(c)
			if err == nil {
				s.blocked[point{x, y}] = true
			}
		}
	}
}

// NewSim returns a Sim printing routes to out.
func NewSim(out io.Writer, opts ...SimOption) *Sim {
	s := &Sim{
		width:   DefaultGridSize,
		height:  DefaultGridSize,
		blocked: make(map[point]bool),
		out:     out,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Heuristic returns the octile distance between a and b. Obstacles and the
// grid bounds are ignored; only a name that is not a cell fails.
func (s *Sim) Heuristic(a, b string) (float64, error) {
	pa, err := coords(a)
	if err != nil {
		return 0, err
	}
	pb, err := coords(b)
	if err != nil {
		return 0, err
	}
	return octile(pa, pb), nil
}

// Cost returns the length of the shortest path from a to b.
func (s *Sim) Cost(a, b string) (float64, error) {
	pa, pb, err := s.endpoints(a, b)
	if err != nil {
		return 0, err
	}
	_, cost, ok := s.search(pa, pb)
	if !ok {
		return 0, fmt.Errorf("%s -> %s: %w", a, b, bridgeerr.ErrNoSolution)
	}
	return cost, nil
}

// Route prints the shortest path from a to b, one step per line, and adds its
// length to the running total.
func (s *Sim) Route(a, b string) error {
	pa, pb, err := s.endpoints(a, b)
	if err != nil {
		return err
	}
	path, cost, ok := s.search(pa, pb)
	if !ok {
		return fmt.Errorf("%s -> %s: %w", a, b, bridgeerr.ErrNoSolution)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 1; i < len(path); i++ {
		fmt.Fprintf(s.out, "MOVETO %s %s\n",
			protocol.FormatCell(path[i-1].x, path[i-1].y),
			protocol.FormatCell(path[i].x, path[i].y))
	}
	s.total += cost
	s.routes++
	return nil
}

// Total returns the summed length of every routed path.
func (s *Sim) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Routes returns how many routes were printed.
func (s *Sim) Routes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routes
}

// Report prints the accumulated route cost, as the companion does at
// shutdown.
func (s *Sim) Report() {
	fmt.Fprintf(s.out, "#pathcost: %.2f\n", s.Total())
}

// endpoints parses both cell names. A name that is not a cell on the grid or
// a blocked cell cannot be connected to anything.
func (s *Sim) endpoints(a, b string) (point, point, error) {
	pa, err := s.cell(a)
	if err != nil {
		return point{}, point{}, err
	}
	pb, err := s.cell(b)
	if err != nil {
		return point{}, point{}, err
	}
	return pa, pb, nil
}

func (s *Sim) cell(name string) (point, error) {
	p, err := coords(name)
	if err != nil {
		return point{}, err
	}
	if !s.inside(p) || s.blocked[p] {
		return point{}, fmt.Errorf("cell %s unreachable: %w", name, bridgeerr.ErrNoSolution)
	}
	return p, nil
}

func coords(name string) (point, error) {
	x, y, err := protocol.ParseCell(name)
	if err != nil {
		return point{}, fmt.Errorf("%v: %w", err, bridgeerr.ErrNoSolution)
	}
	return point{x, y}, nil
}

func (s *Sim) inside(p point) bool {
	return p.x >= 0 && p.y >= 0 && p.x < s.width && p.y < s.height
}

func octile(a, b point) float64 {
	dx := math.Abs(float64(a.x - b.x))
	dy := math.Abs(float64(a.y - b.y))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// search runs A* from start to goal and returns the path including both ends.
func (s *Sim) search(start, goal point) ([]point, float64, bool) {
	if start == goal {
		return []point{start}, 0, true
	}

	g := map[point]float64{start: 0}
	parent := map[point]point{}
	closed := map[point]bool{}
	open := &frontier{{p: start, f: octile(start, goal)}}

	for open.Len() > 0 {
		cur := heap.Pop(open).(node).p
		if cur == goal {
			return unwind(parent, start, goal), g[goal], true
		}
		if closed[cur] {
			continue
		}
		closed[cur] = true

		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				next := point{cur.x + dx, cur.y + dy}
				if !s.inside(next) || s.blocked[next] || closed[next] {
					continue
				}
				step := 1.0
				if dx != 0 && dy != 0 {
					step = math.Sqrt2
				}
				cost := g[cur] + step
				if old, seen := g[next]; seen && old <= cost {
					continue
				}
				g[next] = cost
				parent[next] = cur
				heap.Push(open, node{p: next, f: cost + octile(next, goal)})
			}
		}
	}
	return nil, 0, false
}

func unwind(parent map[point]point, start, goal point) []point {
	path := []point{goal}
	for p := goal; p != start; {
		p = parent[p]
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type node struct {
	p point
	f float64
}

type frontier []node

func (f frontier) Len() int           { return len(f) }
func (f frontier) Less(i, j int) bool { return f[i].f < f[j].f }
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)        { *f = append(*f, x.(node)) }
func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	*f = old[:len(old)-1]
	return n
}
