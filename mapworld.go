package outbreak

import (
	"container/heap"
	"strings"

	"github.com/pkg/errors"
)

// MapElement tags what a single grid cell represents.
type MapElement int

const (
	Empty MapElement = iota
	RoadCell
	HouseholdCell
	StoreCell
)

// cellCoord is a (row, col) grid address. Rows are stored bottom-row-first:
// row 0 holds the last line of the ASCII source, and a row index equals the
// world y coordinate of that cell.
type cellCoord struct {
	Row, Col int
}

// Map is a parsed town: a grid of cells plus the maximal bounding boxes
// that tile its households, the one or more stores, and its road network.
type Map struct {
	Rows, Cols int
	Scale      int
	grid       []MapElement
	baseRows   int
	baseCols   int

	Households []BoundingBox
	Stores     []BoundingBox
	Roads      []BoundingBox

	pathCache map[pathKey][]Position
}

type pathKey struct {
	from, to BoundingBox
}

// at reads the element under world cell (r, c), dividing by Scale first so
// a scaled Map's larger grid still resolves against its unscaled source.
func (m *Map) at(r, c int) MapElement {
	s := m.Scale
	if s < 1 {
		s = 1
	}
	br, bc := r/s, c/s
	if br < 0 || br >= m.baseRows || bc < 0 || bc >= m.baseCols {
		return Empty
	}
	return m.grid[br*m.baseCols+bc]
}

func (m *Map) set(r, c int, e MapElement) {
	m.grid[r*m.baseCols+c] = e
}

// ParseMap reads an ASCII town layout. Recognized characters:
//
//	'H' household, 'S' store, '.' road.
//
// Any other character, an empty map, or rows of differing length return
// ErrMalformedMap.
func ParseMap(ascii string) (*Map, error) {
	lines := loadLines(ascii)
	if len(lines) == 0 {
		return nil, errors.Wrap(ErrMalformedMap, "empty map")
	}
	width := len(lines[0])
	for i, line := range lines {
		if len(line) != width {
			return nil, errors.Wrapf(ErrMalformedMap, "row %d has length %d, want %d", i, len(line), width)
		}
	}

	m := &Map{
		Rows:      len(lines),
		Cols:      width,
		Scale:     1,
		baseRows:  len(lines),
		baseCols:  width,
		grid:      make([]MapElement, len(lines)*width),
		pathCache: make(map[pathKey][]Position),
	}
	// The first text line is the highest-y row: bottom-row-first storage
	// means we assign row indices to the reversed line order.
	for i, line := range lines {
		r := len(lines) - 1 - i
		for c, ch := range line {
			switch ch {
			case 'H':
				m.set(r, c, HouseholdCell)
			case 'S':
				m.set(r, c, StoreCell)
			case '.':
				m.set(r, c, RoadCell)
			default:
				return nil, errors.Wrapf(ErrMalformedMap, "line %d, column %d: unrecognized character %q", i, c, ch)
			}
		}
	}

	m.Households = m.coverElement(HouseholdCell)
	m.Stores = m.coverElement(StoreCell)
	m.Roads = m.coverElement(RoadCell)
	return m, nil
}

// Scaled returns a copy of m whose world bounding boxes, and whose Rows and
// Cols, are multiplied by factor; get_element on the result divides world
// coordinates back down by factor to read the same underlying ASCII grid.
// A factor of 1 returns m unchanged.
func (m *Map) Scaled(factor int) *Map {
	if factor <= 1 {
		return m
	}
	scaleAll := func(boxes []BoundingBox) []BoundingBox {
		out := make([]BoundingBox, len(boxes))
		for i, bb := range boxes {
			out[i] = bb.Scale(factor)
		}
		return out
	}
	return &Map{
		Rows:       m.baseRows * factor,
		Cols:       m.baseCols * factor,
		Scale:      factor,
		grid:       m.grid,
		baseRows:   m.baseRows,
		baseCols:   m.baseCols,
		Households: scaleAll(m.Households),
		Stores:     scaleAll(m.Stores),
		Roads:      scaleAll(m.Roads),
		pathCache:  make(map[pathKey][]Position),
	}
}

// loadLines splits s on newlines, trims a trailing empty line (from a final
// "\n"), and drops leading/trailing blank lines so that indented multi-line
// Go string literals can be used verbatim.
func loadLines(s string) []string {
	raw := strings.Split(s, "\n")
	start, end := 0, len(raw)
	for start < end && strings.TrimSpace(raw[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(raw[end-1]) == "" {
		end--
	}
	return raw[start:end]
}

// coverElement greedily tiles every cell of kind e into maximal rectangles:
// scan row-major for an uncovered cell of kind e, grow it as wide as
// possible along the row, then extend that width downward as far as every
// cell in the new row is also kind e and uncovered. This produces the same
// flavor of covering as the source's household/road tiling: rectangles that
// favor width over height, tiling strictly left-to-right, top-to-bottom.
func (m *Map) coverElement(e MapElement) []BoundingBox {
	covered := make([]bool, len(m.grid))
	var boxes []BoundingBox

	idx := func(r, c int) int { return r*m.Cols + c }

	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if covered[idx(r, c)] || m.at(r, c) != e {
				continue
			}

			right := c
			for right+1 < m.Cols && m.at(r, right+1) == e && !covered[idx(r, right+1)] {
				right++
			}

			bottom := r
		expand:
			for bottom+1 < m.Rows {
				for cc := c; cc <= right; cc++ {
					if m.at(bottom+1, cc) != e || covered[idx(bottom+1, cc)] {
						break expand
					}
				}
				bottom++
			}

			for rr := r; rr <= bottom; rr++ {
				for cc := c; cc <= right; cc++ {
					covered[idx(rr, cc)] = true
				}
			}

			boxes = append(boxes, BoundingBox{
				Bottom: r,
				Top:    bottom + 1,
				Left:   c,
				Right:  right + 1,
			})
		}
	}
	return boxes
}

// GetElement reports what kind of cell (and, for Household/Store, which
// bounding box) occupies the grid cell under p.
func (m *Map) GetElement(p Position) (MapElement, BoundingBox, bool) {
	r, c := int(p.Y), int(p.X)
	e := m.at(r, c)
	if e == Empty {
		return Empty, BoundingBox{}, false
	}
	var set []BoundingBox
	switch e {
	case HouseholdCell:
		set = m.Households
	case StoreCell:
		set = m.Stores
	case RoadCell:
		set = m.Roads
	}
	for _, bb := range set {
		if bb.Contains(p) {
			return e, bb, true
		}
	}
	return e, BoundingBox{}, false
}

// FindBBRoadIntersection returns a road bounding box adjacent to bb (one
// cell beyond any of its four edges): the first one found scanning the cells
// just below and just above bb column by column, then those just left and
// just right of it row by row. Returns false if bb touches no road.
func (m *Map) FindBBRoadIntersection(bb BoundingBox) (BoundingBox, bool) {
	roadAt := func(r, c int) (BoundingBox, bool) {
		if m.at(r, c) != RoadCell {
			return BoundingBox{}, false
		}
		p := Position{X: float64(c) + 0.5, Y: float64(r) + 0.5}
		for _, road := range m.Roads {
			if road.Contains(p) {
				return road, true
			}
		}
		return BoundingBox{}, false
	}

	for c := bb.Left; c < bb.Right; c++ {
		if road, ok := roadAt(bb.Bottom-1, c); ok {
			return road, true
		}
		if road, ok := roadAt(bb.Top, c); ok {
			return road, true
		}
	}
	for r := bb.Bottom; r < bb.Top; r++ {
		if road, ok := roadAt(r, bb.Left-1); ok {
			return road, true
		}
		if road, ok := roadAt(r, bb.Right); ok {
			return road, true
		}
	}
	return BoundingBox{}, false
}

// astarNode is a single grid cell explored during pathfinding.
type astarNode struct {
	coord    cellCoord
	g        float64
	f        float64
	index    int
	cameFrom cellCoord
	hasPrev  bool
}

type nodeQueue []*astarNode

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index, q[j].index = i, j }
func (q *nodeQueue) Push(x interface{}) { n := x.(*astarNode); n.index = len(*q); *q = append(*q, n) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func manhattan(a, b cellCoord) float64 {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return float64(dr + dc)
}

// roadPath runs A* over the 4-connected grid of road cells from start to
// goal, both of which must themselves be road cells.
func (m *Map) roadPath(start, goal cellCoord) ([]cellCoord, error) {
	if m.at(start.Row, start.Col) != RoadCell || m.at(goal.Row, goal.Col) != RoadCell {
		return nil, errors.Wrap(ErrNoPath, "start or goal is not a road cell")
	}
	if start == goal {
		return []cellCoord{start}, nil
	}

	open := make(nodeQueue, 0, 64)
	heap.Init(&open)
	nodes := map[cellCoord]*astarNode{}

	startNode := &astarNode{coord: start, g: 0, f: manhattan(start, goal)}
	nodes[start] = startNode
	heap.Push(&open, startNode)

	closed := map[cellCoord]bool{}
	dirs := []cellCoord{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

	for open.Len() > 0 {
		current := heap.Pop(&open).(*astarNode)
		if current.coord == goal {
			return reconstructPath(nodes, current.coord), nil
		}
		if closed[current.coord] {
			continue
		}
		closed[current.coord] = true

		for _, d := range dirs {
			next := cellCoord{Row: current.coord.Row + d.Row, Col: current.coord.Col + d.Col}
			if m.at(next.Row, next.Col) != RoadCell || closed[next] {
				continue
			}
			tentativeG := current.g + 1
			existing, seen := nodes[next]
			if !seen || tentativeG < existing.g {
				n := &astarNode{
					coord:    next,
					g:        tentativeG,
					f:        tentativeG + manhattan(next, goal),
					cameFrom: current.coord,
					hasPrev:  true,
				}
				nodes[next] = n
				heap.Push(&open, n)
			}
		}
	}
	return nil, errors.Wrap(ErrNoPath, "road graph exhausted")
}

func reconstructPath(nodes map[cellCoord]*astarNode, end cellCoord) []cellCoord {
	var path []cellCoord
	cur := end
	for {
		path = append([]cellCoord{cur}, path...)
		n := nodes[cur]
		if !n.hasPrev {
			break
		}
		cur = n.cameFrom
	}
	return path
}

// FindPath plans a route between two buildings: a linear prefix segment
// from the center of `from` to the nearest adjacent road cell, an A* route
// across the road network, and a linear suffix segment into the center of
// `to`. Results are cached per (from, to) pair since households repeatedly
// path to the same store.
func (m *Map) FindPath(from, to BoundingBox) ([]Position, error) {
	key := pathKey{from: from, to: to}
	if cached, ok := m.pathCache[key]; ok {
		return cached, nil
	}

	fromCenter := boxCenter(from)
	toCenter := boxCenter(to)

	fromRoad, ok := m.FindBBRoadIntersection(from)
	if !ok {
		return nil, errors.Wrapf(ErrNoPath, "no road adjacent to origin %+v", from)
	}
	toRoad, ok := m.FindBBRoadIntersection(to)
	if !ok {
		return nil, errors.Wrapf(ErrNoPath, "no road adjacent to destination %+v", to)
	}

	startCell := nearestCellTo(fromRoad, fromCenter)
	goalCell := nearestCellTo(toRoad, toCenter)

	cellPath, err := m.roadPath(startCell, goalCell)
	if err != nil {
		return nil, err
	}

	path := make([]Position, 0, len(cellPath)+2)
	path = append(path, fromCenter)
	for _, cc := range cellPath {
		path = append(path, Position{X: float64(cc.Col) + 0.5, Y: float64(cc.Row) + 0.5})
	}
	path = append(path, toCenter)

	m.pathCache[key] = path
	return path, nil
}

// GetHouseholdToStorePath returns the cached (or newly planned) route from
// a household's bounds to a store's bounds.
func (m *Map) GetHouseholdToStorePath(household, store BoundingBox) ([]Position, error) {
	return m.FindPath(household, store)
}

// GetStoreToHouseholdPath returns the cached (or newly planned) route from
// a store's bounds back to a household's bounds.
func (m *Map) GetStoreToHouseholdPath(store, household BoundingBox) ([]Position, error) {
	return m.FindPath(store, household)
}

func boxCenter(bb BoundingBox) Position {
	return Position{
		X: float64(bb.Left+bb.Right) / 2,
		Y: float64(bb.Bottom+bb.Top) / 2,
	}
}

func nearestCellTo(bb BoundingBox, p Position) cellCoord {
	col := int(p.X)
	if col < bb.Left {
		col = bb.Left
	}
	if col >= bb.Right {
		col = bb.Right - 1
	}
	row := int(p.Y)
	if row < bb.Bottom {
		row = bb.Bottom
	}
	if row >= bb.Top {
		row = bb.Top - 1
	}
	return cellCoord{Row: row, Col: col}
}

// String renders the map back to its ASCII form, useful for test failure
// messages.
func (m *Map) String() string {
	var b strings.Builder
	for r := m.Rows - 1; r >= 0; r-- {
		for c := 0; c < m.Cols; c++ {
			switch m.at(r, c) {
			case HouseholdCell:
				b.WriteByte('H')
			case StoreCell:
				b.WriteByte('S')
			case RoadCell:
				b.WriteByte('.')
			default:
				b.WriteByte(' ')
			}
		}
		if r > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
