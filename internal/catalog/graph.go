package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cayleygraph/cayley"
	"github.com/cayleygraph/cayley/graph"
	_ "github.com/cayleygraph/cayley/graph/kv/bolt"
	_ "github.com/cayleygraph/cayley/graph/memstore"
	"github.com/cayleygraph/quad"
)

// Predicates of an entry node. Every quad of a course carries the course id
// as its label.
const (
	predOrder       = quad.IRI("grade:order")
	predSemester    = quad.IRI("grade:semester")
	predSubjectName = quad.IRI("grade:subjectName")
	predWorkload    = quad.IRI("grade:workload")
	predDescription = quad.IRI("grade:description")
)

// GraphStore keeps entries as quads in a cayley graph.
type GraphStore struct {
	store *cayley.Handle
}

// NewMemoryStore creates a GraphStore backed by an in-memory quad store.
func NewMemoryStore() (*GraphStore, error) {
	store, err := cayley.NewMemoryGraph()
	if err != nil {
		return nil, fmt.Errorf("create memory graph: %w", err)
	}
	return &GraphStore{store: store}, nil
}

// NewGraphStore opens a persistent bolt-backed graph at path, initialising
// it on first use.
func NewGraphStore(path string) (*GraphStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create graph directory %q: %w", path, err)
	}
	if err := graph.InitQuadStore("bolt", path, nil); err != nil {
		if !strings.Contains(err.Error(), "already") {
			return nil, fmt.Errorf("init bolt quad store at %q: %w", path, err)
		}
	}

	store, err := cayley.NewGraph("bolt", path, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt graph at %q: %w", path, err)
	}
	return &GraphStore{store: store}, nil
}

// Replace swaps the course's quads for the quads of entries. Only the
// difference is written: stale quads are removed in one transaction and
// missing ones added in a second, since the bolt backend drops values when a
// single delta batch removes and adds quads of the same node. If the add
// fails the removed quads are restored.
func (g *GraphStore) Replace(ctx context.Context, courseID int64, entries []Entry) error {
	if err := Validate(courseID, entries); err != nil {
		return err
	}

	old, err := g.courseQuads(ctx, courseID)
	if err != nil {
		return err
	}

	var want []quad.Quad
	for _, e := range entries {
		want = append(want, entryQuads(courseID, e)...)
	}
	stale, missing := diffQuads(old, want)

	if len(stale) > 0 {
		tx := graph.NewTransaction()
		for _, q := range stale {
			tx.RemoveQuad(q)
		}
		if err := g.store.ApplyTransaction(tx); err != nil {
			return fmt.Errorf("replace curriculum of course %d: %w", courseID, err)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	tx := graph.NewTransaction()
	for _, q := range missing {
		tx.AddQuad(q)
	}
	if err := g.store.ApplyTransaction(tx); err != nil {
		if len(stale) > 0 {
			undo := graph.NewTransaction()
			for _, q := range stale {
				undo.AddQuad(q)
			}
			if uerr := g.store.ApplyTransaction(undo); uerr != nil {
				return fmt.Errorf("replace curriculum of course %d: %w (restore failed: %v)", courseID, err, uerr)
			}
		}
		return fmt.Errorf("replace curriculum of course %d: %w", courseID, err)
	}
	return nil
}

// diffQuads returns the quads of old missing from want, and the quads of
// want missing from old.
func diffQuads(old, want []quad.Quad) (stale, missing []quad.Quad) {
	have := make(map[string]bool, len(old))
	for _, q := range old {
		have[quadKey(q)] = true
	}
	keep := make(map[string]bool, len(want))
	for _, q := range want {
		k := quadKey(q)
		if keep[k] {
			continue
		}
		keep[k] = true
		if !have[k] {
			missing = append(missing, q)
		}
	}
	for _, q := range old {
		if !keep[quadKey(q)] {
			stale = append(stale, q)
		}
	}
	return stale, missing
}

func quadKey(q quad.Quad) string {
	return quad.StringOf(q.Subject) + " " + quad.StringOf(q.Predicate) + " " +
		quad.StringOf(q.Object) + " " + quad.StringOf(q.Label)
}

// List returns the entries of a course sorted by Order.
func (g *GraphStore) List(ctx context.Context, courseID int64) ([]Entry, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCourse, courseID)
	}

	quads, err := g.courseQuads(ctx, courseID)
	if err != nil {
		return nil, err
	}

	nodes := map[string]*Entry{}
	for _, q := range quads {
		key := quad.StringOf(q.Subject)
		e, ok := nodes[key]
		if !ok {
			e = &Entry{}
			nodes[key] = e
		}
		switch q.Predicate {
		case predOrder:
			e.Order = intValue(q.Object)
		case predSemester:
			e.Semester = intValue(q.Object)
		case predSubjectName:
			e.SubjectName = stringValue(q.Object)
		case predWorkload:
			e.Workload = intValue(q.Object)
		case predDescription:
			e.Description = stringValue(q.Object)
		}
	}

	entries := make([]Entry, 0, len(nodes))
	for _, e := range nodes {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	return entries, nil
}

// Courses returns the ids of every course with stored quads.
func (g *GraphStore) Courses(ctx context.Context) ([]int64, error) {
	seen := map[int64]bool{}
	err := g.scan(ctx, func(q quad.Quad) {
		if id, ok := courseOf(q.Label); ok {
			seen[id] = true
		}
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Close shuts down the graph store.
func (g *GraphStore) Close() error {
	return g.store.Close()
}

func (g *GraphStore) courseQuads(ctx context.Context, courseID int64) ([]quad.Quad, error) {
	label := courseLabel(courseID)
	var quads []quad.Quad
	err := g.scan(ctx, func(q quad.Quad) {
		if q.Label == label {
			quads = append(quads, q)
		}
	})
	return quads, err
}

func (g *GraphStore) scan(ctx context.Context, fn func(quad.Quad)) error {
	it := g.store.QuadsAllIterator()
	defer it.Close()

	for it.Next(ctx) {
		fn(g.store.Quad(it.Result()))
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("scan quads: %w", err)
	}
	return ctx.Err()
}

func courseLabel(courseID int64) quad.Value {
	return courseIRI(courseID)
}

func courseIRI(courseID int64) quad.IRI {
	return quad.IRI("course:" + strconv.FormatInt(courseID, 10))
}

func courseOf(label quad.Value) (int64, bool) {
	iri, ok := label.(quad.IRI)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(string(iri), "course:"), 10, 64)
	return id, err == nil
}

func entryQuads(courseID int64, e Entry) []quad.Quad {
	label := courseLabel(courseID)
	node := quad.IRI(fmt.Sprintf("%s/entry/%d", string(courseIRI(courseID)), e.Order))
	quads := []quad.Quad{
		{Subject: node, Predicate: predOrder, Object: quad.Int(e.Order), Label: label},
		{Subject: node, Predicate: predSemester, Object: quad.Int(e.Semester), Label: label},
		{Subject: node, Predicate: predSubjectName, Object: quad.String(e.SubjectName), Label: label},
		{Subject: node, Predicate: predWorkload, Object: quad.Int(e.Workload), Label: label},
	}
	if e.Description != "" {
		quads = append(quads, quad.Quad{Subject: node, Predicate: predDescription, Object: quad.String(e.Description), Label: label})
	}
	return quads
}

func intValue(v quad.Value) int {
	switch n := quad.NativeOf(v).(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func stringValue(v quad.Value) string {
	if s, ok := v.(quad.String); ok {
		return string(s)
	}
	return quad.StringOf(v)
}
