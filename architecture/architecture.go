// Package architecture models the coupling graph of a device: an
// undirected graph over named nodes with BFS distances, articulation
// points, line extraction, and the built-in topologies.
package architecture

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quivercomp/quiver/qerror"
	"github.com/quivercomp/quiver/unitid"
)

// Architecture is an undirected coupling graph. Nodes keep their
// insertion order; distances are memoized per source.
type Architecture struct {
	nodes []unitid.UnitID
	index map[string]int
	adj   []mapset.Set[int]
	dist  [][]int
}

// New builds a graph from a node list and undirected links. Links must
// join distinct, listed nodes.
func New(nodes []unitid.UnitID, links [][2]unitid.UnitID) (*Architecture, error) {
	a := &Architecture{index: map[string]int{}}
	for _, n := range nodes {
		if _, ok := a.index[n.Key()]; ok {
			return nil, qerror.Wrap(qerror.ErrArchitectureInvalidity, "duplicate node %s", n)
		}
		a.index[n.Key()] = len(a.nodes)
		a.nodes = append(a.nodes, n)
		a.adj = append(a.adj, mapset.NewSet[int]())
	}
	for _, l := range links {
		i, ok := a.index[l[0].Key()]
		if !ok {
			return nil, qerror.Wrap(qerror.ErrMissingUnit, "link endpoint %s", l[0])
		}
		j, ok := a.index[l[1].Key()]
		if !ok {
			return nil, qerror.Wrap(qerror.ErrMissingUnit, "link endpoint %s", l[1])
		}
		if i == j {
			return nil, qerror.Wrap(qerror.ErrArchitectureInvalidity, "self-loop on %s", l[0])
		}
		a.adj[i].Add(j)
		a.adj[j].Add(i)
	}
	a.dist = make([][]int, len(a.nodes))
	return a, nil
}

// FromIndexEdges builds a graph over the default node register from
// index pairs.
func FromIndexEdges(edges [][2]int) *Architecture {
	max := -1
	for _, e := range edges {
		if e[0] > max {
			max = e[0]
		}
		if e[1] > max {
			max = e[1]
		}
	}
	nodes := make([]unitid.UnitID, max+1)
	for i := range nodes {
		nodes[i] = unitid.Node(i)
	}
	links := make([][2]unitid.UnitID, len(edges))
	for i, e := range edges {
		links[i] = [2]unitid.UnitID{nodes[e[0]], nodes[e[1]]}
	}
	a, err := New(nodes, links)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Architecture) NumNodes() int { return len(a.nodes) }

func (a *Architecture) Nodes() []unitid.UnitID {
	return append([]unitid.UnitID{}, a.nodes...)
}

func (a *Architecture) HasNode(n unitid.UnitID) bool {
	_, ok := a.index[n.Key()]
	return ok
}

func (a *Architecture) HasEdge(x, y unitid.UnitID) bool {
	i, ok := a.index[x.Key()]
	if !ok {
		return false
	}
	j, ok := a.index[y.Key()]
	if !ok {
		return false
	}
	return a.adj[i].Contains(j)
}

func (a *Architecture) degree(i int) int { return a.adj[i].Cardinality() }

// neighbors returns the adjacency of node i in ascending index order,
// keeping traversals deterministic.
func (a *Architecture) neighbors(i int) []int {
	ns := a.adj[i].ToSlice()
	sort.Ints(ns)
	return ns
}

// distRow runs one memoized BFS from source i. Unreachable nodes hold
// -1.
func (a *Architecture) distRow(i int) []int {
	if a.dist[i] != nil {
		return a.dist[i]
	}
	d := make([]int, len(a.nodes))
	for j := range d {
		d[j] = -1
	}
	d[i] = 0
	queue := []int{i}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range a.neighbors(u) {
			if d[v] == -1 {
				d[v] = d[u] + 1
				queue = append(queue, v)
			}
		}
	}
	a.dist[i] = d
	return d
}

// GetDistance returns the hop count between two nodes.
func (a *Architecture) GetDistance(x, y unitid.UnitID) (int, error) {
	i, ok := a.index[x.Key()]
	if !ok {
		return 0, qerror.Wrap(qerror.ErrMissingUnit, "node %s", x)
	}
	j, ok := a.index[y.Key()]
	if !ok {
		return 0, qerror.Wrap(qerror.ErrMissingUnit, "node %s", y)
	}
	d := a.distRow(i)[j]
	if d == -1 {
		return 0, qerror.Wrap(qerror.ErrArchitectureInvalidity, "nodes %s and %s are disconnected", x, y)
	}
	return d, nil
}

// GetDiameter returns the largest pairwise distance.
func (a *Architecture) GetDiameter() (int, error) {
	if len(a.nodes) == 0 {
		return 0, qerror.Wrap(qerror.ErrArchitectureInvalidity, "empty architecture")
	}
	diam := 0
	for i := range a.nodes {
		for _, d := range a.distRow(i) {
			if d == -1 {
				return 0, qerror.Wrap(qerror.ErrArchitectureInvalidity, "architecture is disconnected")
			}
			if d > diam {
				diam = d
			}
		}
	}
	return diam, nil
}

// GetConnectivity returns the adjacency matrix as bitset rows in node
// order.
func (a *Architecture) GetConnectivity() []*bitset.BitSet {
	rows := make([]*bitset.BitSet, len(a.nodes))
	for i := range a.nodes {
		row := bitset.New(uint(len(a.nodes)))
		for _, j := range a.neighbors(i) {
			row.Set(uint(j))
		}
		rows[i] = row
	}
	return rows
}

// CreateSubarch returns the subgraph induced by the given nodes.
func (a *Architecture) CreateSubarch(nodes []unitid.UnitID) (*Architecture, error) {
	var links [][2]unitid.UnitID
	for i, x := range nodes {
		if !a.HasNode(x) {
			return nil, qerror.Wrap(qerror.ErrMissingUnit, "node %s", x)
		}
		for _, y := range nodes[i+1:] {
			if a.HasEdge(x, y) {
				links = append(links, [2]unitid.UnitID{x, y})
			}
		}
	}
	return New(nodes, links)
}

// articulation runs Hopcroft-Tarjan, returning the cut vertices as
// indices.
func (a *Architecture) articulation() mapset.Set[int] {
	n := len(a.nodes)
	cuts := mapset.NewSet[int]()
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0
	var dfs func(u, parent int)
	dfs = func(u, parent int) {
		disc[u] = timer
		low[u] = timer
		timer++
		children := 0
		for _, v := range a.neighbors(u) {
			if v == parent {
				continue
			}
			if disc[v] != -1 {
				if disc[v] < low[u] {
					low[u] = disc[v]
				}
				continue
			}
			children++
			dfs(v, u)
			if low[v] < low[u] {
				low[u] = low[v]
			}
			if parent != -1 && low[v] >= disc[u] {
				cuts.Add(u)
			}
		}
		if parent == -1 && children > 1 {
			cuts.Add(u)
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			dfs(i, -1)
		}
	}
	return cuts
}

// GetArticulationPoints returns the cut vertices. When subarc is
// non-nil, only vertices whose removal disconnects the sub-architecture
// nodes are kept.
func (a *Architecture) GetArticulationPoints(subarc *Architecture) []unitid.UnitID {
	cuts := a.articulation()
	var out []unitid.UnitID
	for _, i := range cuts.ToSlice() {
		if subarc != nil && !a.cutsSubarc(i, subarc) {
			continue
		}
		out = append(out, a.nodes[i])
	}
	unitid.Sort(out)
	return out
}

// cutsSubarc reports whether removing node i separates two subarc
// nodes.
func (a *Architecture) cutsSubarc(i int, subarc *Architecture) bool {
	comp := make([]int, len(a.nodes))
	for j := range comp {
		comp[j] = -1
	}
	comp[i] = -2
	label := 0
	for s := range a.nodes {
		if comp[s] != -1 {
			continue
		}
		comp[s] = label
		queue := []int{s}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range a.neighbors(u) {
				if comp[v] == -1 {
					comp[v] = label
					queue = append(queue, v)
				}
			}
		}
		label++
	}
	seen := -1
	for _, n := range subarc.nodes {
		j, ok := a.index[n.Key()]
		if !ok || j == i {
			continue
		}
		if seen == -1 {
			seen = comp[j]
		} else if comp[j] != seen {
			return true
		}
	}
	return false
}

// GetLines greedily extracts vertex-disjoint simple paths of the
// requested node counts, longest requests first.
func (a *Architecture) GetLines(lengths []int) ([][]unitid.UnitID, error) {
	sorted := append([]int{}, lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	used := make([]bool, len(a.nodes))
	var lines [][]unitid.UnitID
	for _, l := range sorted {
		if l <= 0 {
			continue
		}
		path := a.findLine(l, used)
		if path == nil {
			return nil, qerror.Wrap(qerror.ErrNoSuchLines, "no disjoint line of %d nodes", l)
		}
		line := make([]unitid.UnitID, len(path))
		for i, p := range path {
			used[p] = true
			line[i] = a.nodes[p]
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (a *Architecture) findLine(l int, used []bool) []int {
	onPath := make([]bool, len(a.nodes))
	var path []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		path = append(path, u)
		onPath[u] = true
		if len(path) == l {
			return true
		}
		for _, v := range a.neighbors(u) {
			if used[v] || onPath[v] {
				continue
			}
			if dfs(v) {
				return true
			}
		}
		path = path[:len(path)-1]
		onPath[u] = false
		return false
	}
	for s := range a.nodes {
		if used[s] {
			continue
		}
		if dfs(s) {
			return path
		}
	}
	return nil
}

// sortedDistances returns the distance vector from node i, ascending,
// unreachable entries dropped.
func (a *Architecture) sortedDistances(i int) []int {
	row := a.distRow(i)
	out := make([]int, 0, len(row))
	for j, d := range row {
		if j != i && d != -1 {
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// triLexCompare orders two sorted distance vectors: the node whose
// distances grow faster ranks higher (is worse connected). Vectors are
// compared from the largest entries down.
func triLexCompare(d1, d2 []int) int {
	i, j := len(d1)-1, len(d2)-1
	for i >= 0 && j >= 0 {
		if d1[i] != d2[j] {
			if d1[i] > d2[j] {
				return 1
			}
			return -1
		}
		i--
		j--
	}
	switch {
	case i >= 0:
		return 1
	case j >= 0:
		return -1
	}
	return 0
}

// findWorstNode picks the node with the weakest connectivity: lowest
// degree, then the tri-lexicographically largest distance vector here,
// then in the original graph. Cut vertices are never candidates so the
// graph stays connected.
func (a *Architecture) findWorstNode(orig *Architecture) (int, bool) {
	cuts := a.articulation()
	worst := -1
	var worstDist, worstOrig []int
	for i := range a.nodes {
		if cuts.Contains(i) {
			continue
		}
		if worst == -1 {
			worst = i
			worstDist = a.sortedDistances(i)
			worstOrig = nil
			continue
		}
		switch {
		case a.degree(i) < a.degree(worst):
		case a.degree(i) > a.degree(worst):
			continue
		default:
			cmp := triLexCompare(a.sortedDistances(i), worstDist)
			if cmp == 0 {
				oi, ok1 := orig.index[a.nodes[i].Key()]
				ow, ok2 := orig.index[a.nodes[worst].Key()]
				if ok1 && ok2 {
					if worstOrig == nil {
						worstOrig = orig.sortedDistances(ow)
					}
					cmp = triLexCompare(orig.sortedDistances(oi), worstOrig)
				}
			}
			if cmp <= 0 {
				continue
			}
		}
		worst = i
		worstDist = a.sortedDistances(i)
		worstOrig = nil
	}
	return worst, worst != -1
}

// RemoveWorstNodes removes num nodes one at a time, each pick being the
// current weakest non-cut vertex, and returns the removed nodes.
func (a *Architecture) RemoveWorstNodes(num int) []unitid.UnitID {
	orig := a.clone()
	var removed []unitid.UnitID
	for k := 0; k < num; k++ {
		i, ok := a.findWorstNode(orig)
		if !ok {
			break
		}
		removed = append(removed, a.nodes[i])
		a.removeNode(i)
	}
	return removed
}

func (a *Architecture) clone() *Architecture {
	b := &Architecture{
		nodes: append([]unitid.UnitID{}, a.nodes...),
		index: map[string]int{},
		adj:   make([]mapset.Set[int], len(a.adj)),
		dist:  make([][]int, len(a.nodes)),
	}
	for k, v := range a.index {
		b.index[k] = v
	}
	for i, s := range a.adj {
		b.adj[i] = s.Clone()
	}
	return b
}

func (a *Architecture) removeNode(i int) {
	remap := make([]int, len(a.nodes))
	nodes := make([]unitid.UnitID, 0, len(a.nodes)-1)
	for j, n := range a.nodes {
		if j == i {
			remap[j] = -1
			continue
		}
		remap[j] = len(nodes)
		nodes = append(nodes, n)
	}
	adj := make([]mapset.Set[int], len(nodes))
	index := map[string]int{}
	for j, n := range nodes {
		index[n.Key()] = j
	}
	for j := range a.nodes {
		if j == i {
			continue
		}
		s := mapset.NewSet[int]()
		for _, v := range a.adj[j].ToSlice() {
			if v != i {
				s.Add(remap[v])
			}
		}
		adj[remap[j]] = s
	}
	a.nodes = nodes
	a.index = index
	a.adj = adj
	a.dist = make([][]int, len(nodes))
}

type jsonArch struct {
	Nodes []unitid.UnitID    `json:"nodes"`
	Links [][2]unitid.UnitID `json:"links"`
}

func (a *Architecture) MarshalJSON() ([]byte, error) {
	j := jsonArch{Nodes: a.nodes}
	for i := range a.nodes {
		for _, v := range a.neighbors(i) {
			if i < v {
				j.Links = append(j.Links, [2]unitid.UnitID{a.nodes[i], a.nodes[v]})
			}
		}
	}
	sort.Slice(j.Links, func(x, y int) bool {
		if !j.Links[x][0].Equal(j.Links[y][0]) {
			return j.Links[x][0].Less(j.Links[y][0])
		}
		return j.Links[x][1].Less(j.Links[y][1])
	})
	return json.Marshal(j)
}

func (a *Architecture) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var j jsonArch
	if err := dec.Decode(&j); err != nil {
		return err
	}
	b, err := New(j.Nodes, j.Links)
	if err != nil {
		return err
	}
	*a = *b
	return nil
}
