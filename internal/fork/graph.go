// Package fork reconstructs the fork (branch) ancestry between
// session records as a parent/children relation with explicit
// roots.
package fork

import "github.com/arvessen/ccsessions/internal/session"

// Graph is the fork relation over one immutable record snapshot.
// It is rebuilt from scratch whenever the record set changes.
type Graph struct {
	children map[string][]string
	parents  map[string]string
	roots    []string
	ids      map[string]struct{}
}

// Build constructs the graph in linear time. The first pass assigns
// each record with a resolvable fork parent to that parent's child
// bucket, preserving input order; callers pre-sort by recency so
// sibling order reflects recency. The second pass derives roots by
// set subtraction (all ids minus all child ids), so cyclic parent
// references can never cause a traversal loop. A record whose
// parent is itself, absent from the set, or empty is a root.
func Build(records []session.Record) *Graph {
	g := &Graph{
		children: make(map[string][]string),
		parents:  make(map[string]string, len(records)),
		ids:      make(map[string]struct{}, len(records)),
	}

	for _, r := range records {
		g.ids[r.ID] = struct{}{}
	}

	for _, r := range records {
		parent := r.ForkedFrom
		if parent == "" || parent == r.ID {
			continue
		}
		if _, ok := g.ids[parent]; !ok {
			continue // dangling parent
		}
		if _, ok := g.parents[r.ID]; ok {
			continue // duplicate record id: first one wins
		}
		g.parents[r.ID] = parent
		g.children[parent] = append(g.children[parent], r.ID)
	}

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := g.parents[r.ID]; ok {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		g.roots = append(g.roots, r.ID)
	}

	return g
}

// Children returns the direct children of id in input order.
func (g *Graph) Children(id string) []string {
	return g.children[id]
}

// HasChildren reports whether id has at least one direct child.
func (g *Graph) HasChildren(id string) bool {
	return len(g.children[id]) > 0
}

// Parent returns the resolved fork parent of id, if any.
func (g *Graph) Parent(id string) (string, bool) {
	p, ok := g.parents[id]
	return p, ok
}

// Roots returns the ids with no resolved parent, in input order.
func (g *Graph) Roots() []string {
	return g.roots
}

// Has reports whether id is part of the current snapshot.
func (g *Graph) Has(id string) bool {
	_, ok := g.ids[id]
	return ok
}

// Len returns the number of distinct ids in the snapshot.
func (g *Graph) Len() int {
	return len(g.ids)
}
