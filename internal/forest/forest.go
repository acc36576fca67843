package forest

import (
	"fmt"
	"os"

	"github.com/wethinkt/go-timegraph/internal/timegraph"
	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// Forest is a loaded entry forest.
type Forest struct {
	Roots []*timegraph.Node
	byID  map[string]*timegraph.Node
}

// Entries returns the roots as viewport entries.
func (f *Forest) Entries() []timegraph.Entry {
	if f == nil {
		return nil
	}
	return timegraph.Entries(f.Roots)
}

// Lookup returns the node with the given id, or nil.
func (f *Forest) Lookup(id string) *timegraph.Node {
	if f == nil {
		return nil
	}
	return f.byID[id]
}

// Entry is Lookup as a viewport entry; unknown ids give a nil interface.
func (f *Forest) Entry(id string) timegraph.Entry {
	if n := f.Lookup(id); n != nil {
		return n
	}
	return nil
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.byID)
}

// Bounds returns the time extent of the forest.
func (f *Forest) Bounds() (timegraph.Bounds, bool) {
	return timegraph.FoldBounds(f.Entries())
}

// Build assembles records into a forest. Records keep their file order
// among siblings. Duplicate ids are dropped; records whose parent is
// unknown or would close a cycle become roots. Each such problem is
// reported in the returned error list.
func Build(records []Record) (*Forest, []error) {
	f := &Forest{byID: make(map[string]*timegraph.Node, len(records))}
	var errs []error

	nodes := make([]*timegraph.Node, 0, len(records))
	parents := make([]string, 0, len(records))
	for _, r := range records {
		if _, dup := f.byID[r.ID]; dup {
			errs = append(errs, fmt.Errorf("record %q: duplicate id", r.ID))
			continue
		}
		n := &timegraph.Node{
			ID:    r.ID,
			Name:  r.Name,
			Start: timegraph.Unset,
			End:   timegraph.Unset,
		}
		if n.Name == "" {
			n.Name = r.ID
		}
		if r.HasTime() {
			n.Start, n.End, n.Events = int64(*r.Start), int64(*r.End), true
		}
		f.byID[r.ID] = n
		nodes = append(nodes, n)
		parents = append(parents, r.Parent)
	}

	for i, n := range nodes {
		pid := parents[i]
		if pid == "" {
			f.Roots = append(f.Roots, n)
			continue
		}
		p, ok := f.byID[pid]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("record %q: unknown parent %q", n.ID, pid))
			f.Roots = append(f.Roots, n)
		case isAncestor(n, p):
			errs = append(errs, fmt.Errorf("record %q: parent %q forms a cycle", n.ID, pid))
			f.Roots = append(f.Roots, n)
		default:
			p.Add(n)
		}
	}
	return f, errs
}

// isAncestor reports whether n is p or one of p's ancestors.
func isAncestor(n, p *timegraph.Node) bool {
	for q := p; q != nil; q = q.Parent {
		if q == n {
			return true
		}
	}
	return false
}

// Result is the outcome of loading a forest file.
type Result struct {
	Path   string
	Forest *Forest
	Lines  int
	Errors []error // per-record problems; the forest is still usable
}

// Load reads and assembles the forest file at path. The returned error is
// only set when the file could not be read at all.
func Load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open forest file: %w", err)
	}
	defer f.Close()

	p := NewParser(f)
	records, err := p.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	forest, buildErrs := Build(records)

	res := &Result{
		Path:   path,
		Forest: forest,
		Lines:  p.LineNum(),
		Errors: append(p.Errors(), buildErrs...),
	}
	tuilog.Log.Info("Loaded forest", "path", path, "nodes", forest.Len(), "lines", res.Lines, "errors", len(res.Errors))
	return res, nil
}
