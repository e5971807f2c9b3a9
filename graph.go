// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"sort"

	"github.com/pkg/errors"
)

// orderAssigns builds the combinational dependency graph over all
// continuous assignments, rejects multiple drivers and cycles, and returns
// the assignments in topological evaluation order. The order is derived
// once here and reused every settle pass.
func orderAssigns(es *elabState) ([]*assign, error) {
	// one driver per signal
	driver := make(map[*Signal]*assign, len(es.assigns))
	for _, a := range es.assigns {
		if prev := driver[a.dst]; prev != nil {
			return nil, errors.Errorf("signal %s driven by more than one assignment", a.dst.Path())
		}
		driver[a.dst] = a
	}

	// edges: driver(dep) -> a, for every declared dependency
	succ := make(map[*assign][]*assign, len(es.assigns))
	indeg := make(map[*assign]int, len(es.assigns))
	for _, a := range es.assigns {
		for _, dep := range a.deps {
			if src := driver[dep]; src != nil {
				succ[src] = append(succ[src], a)
				indeg[a]++
			}
		}
	}

	// Kahn's algorithm, seeded in declaration order for determinism
	var queue, order []*assign
	for _, a := range es.assigns {
		if indeg[a] == 0 {
			queue = append(queue, a)
		}
	}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		a.ord = len(order)
		order = append(order, a)
		for _, next := range succ[a] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) == len(es.assigns) {
		return order, nil
	}

	// leftover assignments sit on a cycle or downstream of one; trim the
	// downstream part so the error names only the cycle members
	left := make(map[*assign]bool)
	for _, a := range es.assigns {
		if indeg[a] > 0 {
			left[a] = true
		}
	}
	for {
		trimmed := false
		for a := range left {
			out := false
			for _, next := range succ[a] {
				if left[next] {
					out = true
					break
				}
			}
			if !out {
				delete(left, a)
				trimmed = true
			}
		}
		if !trimmed {
			break
		}
	}

	names := make([]string, 0, len(left))
	for a := range left {
		names = append(names, a.dst.Path())
	}
	sort.Strings(names)
	return nil, &CombinationalCycleError{Signals: names}
}
