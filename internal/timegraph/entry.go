package timegraph

// Entry is one row of the hierarchical entry forest that drives a time
// graph. Implementations come from the data provider; the viewport only
// reads their time extent.
type Entry interface {
	HasTimeEvents() bool
	StartTime() int64
	EndTime() int64
	Children() []Entry
}

// Node is a plain Entry used by loaders and tests.
type Node struct {
	ID     string
	Name   string
	Start  int64
	End    int64
	Events bool
	Kids   []*Node
	Parent *Node
}

// NewNode creates a node with time events spanning [start, end].
func NewNode(id, name string, start, end int64) *Node {
	return &Node{ID: id, Name: name, Start: start, End: end, Events: true}
}

// Add appends child nodes and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		n.Kids = append(n.Kids, c)
	}
	return n
}

func (n *Node) HasTimeEvents() bool { return n.Events }
func (n *Node) StartTime() int64    { return n.Start }
func (n *Node) EndTime() int64      { return n.End }

func (n *Node) Children() []Entry {
	out := make([]Entry, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// FoldBounds computes the extent of a forest: the minimum start and maximum
// end over every entry that has time events, recursing into children.
// Entries without events, or with an Unset time, are skipped (their
// children are still visited). ok is false when nothing contributed.
func FoldBounds(entries []Entry) (b Bounds, ok bool) {
	b = UnsetBounds()
	var haveMin, haveMax bool
	var walk func(Entry)
	walk = func(e Entry) {
		if e == nil {
			return
		}
		if e.HasTimeEvents() {
			if s := e.StartTime(); s != Unset && (!haveMin || s < b.Min) {
				b.Min, haveMin = s, true
			}
			if t := e.EndTime(); t != Unset && (!haveMax || t > b.Max) {
				b.Max, haveMax = t, true
			}
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	for _, e := range entries {
		walk(e)
	}
	return b, haveMin && haveMax
}

// Flatten lists the forest depth-first, parents before children.
func Flatten(roots []*Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, k := range n.Kids {
			walk(k)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}

// Entries converts a slice of nodes to the Entry interface.
func Entries(nodes []*Node) []Entry {
	out := make([]Entry, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}
