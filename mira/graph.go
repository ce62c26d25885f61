package mira

import (
	"context"
)

// ModuleGraph is the set of modules reachable from an entry record, with
// the resolved dependency edges in request order. It stops at fetching:
// linking and evaluation are the engine's concern.
type ModuleGraph struct {
	entry   *Module
	modules []*Module
	edges   map[*Module][]*Module
}

// LoadGraph walks the imports of entry breadth-first through the context's
// loader, returning the full graph. Sibling imports are dispatched together
// through load futures — no relative order between them is promised — and a
// failure for any (referrer, specifier) pair aborts the walk with that
// pair's attributed error.
func LoadGraph(ctx context.Context, cx *Context, entry *Module) (*ModuleGraph, error) {
	g := &ModuleGraph{
		entry: entry,
		edges: make(map[*Module][]*Module),
	}
	visited := map[*Module]struct{}{entry: {}}
	g.modules = append(g.modules, entry)

	queue := []*Module{entry}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]

		referrer := ModuleReferrer(m)
		requests := m.RequestedModules()
		futures := make([]*LoadFuture, len(requests))
		for i, specifier := range requests {
			futures[i] = cx.loader.enqueueLoad(ctx, referrer, specifier, cx)
		}
		for _, f := range futures {
			dep, err := f.Await(ctx)
			if err != nil {
				return nil, err
			}
			g.edges[m] = append(g.edges[m], dep)
			if _, ok := visited[dep]; !ok {
				visited[dep] = struct{}{}
				g.modules = append(g.modules, dep)
				queue = append(queue, dep)
			}
		}
	}
	return g, nil
}

// Entry returns the graph's entry module.
func (g *ModuleGraph) Entry() *Module {
	return g.entry
}

// Modules returns every module in the graph in discovery order, entry
// first.
func (g *ModuleGraph) Modules() []*Module {
	out := make([]*Module, len(g.modules))
	copy(out, g.modules)
	return out
}

// Requires returns the modules m imports, in request order.
func (g *ModuleGraph) Requires(m *Module) []*Module {
	deps := g.edges[m]
	out := make([]*Module, len(deps))
	copy(out, deps)
	return out
}

// Len reports the number of modules in the graph.
func (g *ModuleGraph) Len() int {
	return len(g.modules)
}
