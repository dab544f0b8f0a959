package search

import (
	"container/heap"
	"slices"

	"github.com/kingrea/harpist/internal/cost"
)

// link is an incoming edge on a cheapest route to a state.
type link struct {
	from   State
	choice int
	step   Step
	cost   uint
}

type record struct {
	g        uint
	start    bool
	expanded bool
	parents  []link
}

type item struct {
	state State
	g     uint
	f     uint
	seq   int
}

// frontier is a min-heap on f, preferring deeper entries and then insertion
// order so that runs are reproducible.
type frontier []item

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].g != q[j].g {
		return q[i].g > q[j].g
	}
	return q[i].seq < q[j].seq
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x any) { *q = append(*q, x.(item)) }

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// bag is an A* search that keeps every equally cheap parent of each state, so
// all minimum-cost paths can be rebuilt afterwards. The heuristic is
// admissible but not consistent, so a state is reopened whenever a cheaper
// route to it turns up.
type bag struct {
	w      cost.Weights
	p      *Problem
	nodes  map[State]*record
	open   frontier
	seq    int
	goals  []State
	best   uint
	solved bool
}

func newBag(w cost.Weights, p *Problem) *bag {
	return &bag{w: w, p: p, nodes: make(map[State]*record)}
}

func (b *bag) push(s State, g uint) {
	heap.Push(&b.open, item{state: s, g: g, f: g + b.p.heuristic(b.w, s), seq: b.seq})
	b.seq++
}

func (b *bag) run(starts []State, limit int) Stats {
	stats := Stats{Starts: len(starts)}
	for _, s := range starts {
		if _, ok := b.nodes[s]; ok {
			continue
		}
		b.nodes[s] = &record{start: true}
		b.push(s, 0)
	}
	for b.open.Len() > 0 {
		it := heap.Pop(&b.open).(item)
		rec := b.nodes[it.state]
		if it.g > rec.g {
			continue
		}
		if b.solved && it.f > b.best {
			break
		}
		if b.p.terminal(it.state) {
			b.reach(it.state, it.g)
			continue
		}
		if limit > 0 && stats.Expanded >= limit {
			stats.Truncated = true
			break
		}
		if rec.expanded {
			stats.Reopened++
		}
		rec.expanded = true
		stats.Expanded++
		for _, e := range b.p.successors(b.w, it.state) {
			b.relax(it.state, it.g, e)
		}
	}
	return stats
}

func (b *bag) reach(goal State, g uint) {
	switch {
	case !b.solved || g < b.best:
		b.best = g
		b.goals = []State{goal}
		b.solved = true
	case g == b.best:
		b.goals = append(b.goals, goal)
	}
}

func (b *bag) relax(from State, g uint, e edge) {
	g += e.cost
	l := link{from: from, choice: e.choice, step: e.step, cost: e.cost}
	rec, ok := b.nodes[e.to]
	switch {
	case !ok:
		b.nodes[e.to] = &record{g: g, parents: []link{l}}
		b.push(e.to, g)
	case g < rec.g:
		rec.g = g
		rec.parents = []link{l}
		b.push(e.to, g)
	case g == rec.g:
		rec.parents = append(rec.parents, l)
	}
}

// paths rebuilds up to limit cheapest paths, or all of them when limit is 0.
func (b *bag) paths(limit int) []Path {
	var out []Path
	var trail []State
	var edges []link
	var walk func(s State) bool
	walk = func(s State) bool {
		rec := b.nodes[s]
		trail = append(trail, s)
		defer func() { trail = trail[:len(trail)-1] }()
		if rec.start {
			out = append(out, b.build(trail, edges))
			return limit == 0 || len(out) < limit
		}
		for _, l := range rec.parents {
			// Parents recorded before a cheaper route to them was found are stale.
			if b.nodes[l.from].g+l.cost != rec.g {
				continue
			}
			edges = append(edges, l)
			ok := walk(l.from)
			edges = edges[:len(edges)-1]
			if !ok {
				return false
			}
		}
		return true
	}
	for _, g := range b.goals {
		if !walk(g) {
			break
		}
	}
	return out
}

// build turns a goal-to-start trail into a forward path.
func (b *bag) build(trail []State, edges []link) Path {
	states := slices.Clone(trail)
	slices.Reverse(states)
	path := Path{
		States:  states,
		Choices: make([]int, 0, len(edges)),
		Steps:   make([]Step, 0, len(edges)),
		Cost:    b.best,
	}
	for i := len(edges) - 1; i >= 0; i-- {
		path.Steps = append(path.Steps, edges[i].step)
		if len(path.Choices) < b.p.Beats() {
			path.Choices = append(path.Choices, edges[i].choice)
		}
	}
	return path
}
