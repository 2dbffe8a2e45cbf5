package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/comalice/hsmx/internal/primitives"
)

// MaxCompletionDepth bounds the number of completion transitions chained
// within a single resolution.
const MaxCompletionDepth = 64

// ErrCompletionLoop is returned when completion transitions keep landing on
// final states beyond MaxCompletionDepth.
var ErrCompletionLoop = errors.New("completion transitions do not settle")

// Phase tells which part of a transition an action belongs to.
type Phase int

const (
	PhaseExit Phase = iota
	PhaseTransition
	PhaseEntry
)

func (p Phase) String() string {
	switch p {
	case PhaseExit:
		return "exit"
	case PhaseTransition:
		return "transition"
	case PhaseEntry:
		return "entry"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Step is one unit of an execution chain: a state being exited, a
// transition's own actions, or a state being entered.
type Step struct {
	Phase Phase
	// State is the exited or entered state, or the transition source.
	State   primitives.StateID
	From    primitives.StateID
	To      primitives.StateID
	Event   primitives.Event
	Kind    primitives.TransitionKind
	Actions []primitives.Action
}

// Plan is the outcome of a resolution: the ordered chain to execute and the
// leaf the machine settles in.
type Plan struct {
	Handled     bool
	Source      primitives.StateID
	Target      primitives.StateID
	Steps       []Step
	Transitions []*primitives.TransitionConfig
}

// Trace renders the chain as "phase:state" entries, for logs and tests.
func (p *Plan) Trace() []string {
	out := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.Phase.String()+":"+string(s.State))
	}
	return out
}

// Resolver computes execution chains over an immutable chart. It holds no
// per-instance state: history is passed in and written to during resolution.
type Resolver struct {
	chart  *primitives.Chart
	graph  *primitives.StateGraph
	table  *primitives.TransitionTable
	logger *zap.Logger
}

// NewResolver creates a Resolver for chart.
func NewResolver(chart *primitives.Chart, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		chart:  chart,
		graph:  chart.Graph(),
		table:  chart.Table(),
		logger: logger,
	}
}

// Select performs the scope search: walk from leaf outward and, at the first
// level that declares evt, return the first candidate whose guard holds. If
// that level has no satisfied candidate the search stops and nil is returned.
func (r *Resolver) Select(ctx context.Context, leaf primitives.StateID, evt primitives.Event) (*primitives.TransitionConfig, error) {
	path, err := r.graph.AncestorsOf(leaf)
	if err != nil {
		return nil, err
	}
	for i := len(path) - 1; i >= 0; i-- {
		candidates := r.table.CandidatesFor(path[i], evt.Type)
		if len(candidates) == 0 {
			continue
		}
		return r.firstSatisfied(ctx, candidates, evt), nil
	}
	return nil, nil
}

func (r *Resolver) firstSatisfied(ctx context.Context, candidates []*primitives.TransitionConfig, evt primitives.Event) *primitives.TransitionConfig {
	for _, t := range candidates {
		if t.Guard == nil {
			return t
		}
		ok, err := t.Guard(ctx, t.Source, t.Target, evt)
		if err != nil {
			r.logger.Warn("guard failed, treating as not satisfied",
				zap.String("source", string(t.Source)),
				zap.String("target", string(t.Target)),
				zap.String("event", string(evt.Type)),
				zap.Error(err))
			continue
		}
		if ok {
			return t
		}
	}
	return nil
}

// Resolve computes the chain for evt fired while in leaf. History records
// for every exited composite are written to hist as the chain is built.
// An unhandled event yields a Plan with Handled false and no steps.
func (r *Resolver) Resolve(ctx context.Context, leaf primitives.StateID, evt primitives.Event, hist *HistoryStore) (*Plan, error) {
	plan := &Plan{Source: leaf, Target: leaf}

	t, err := r.Select(ctx, leaf, evt)
	if err != nil || t == nil {
		return plan, err
	}
	plan.Handled = true
	if err := r.apply(plan, leaf, t, evt, hist); err != nil {
		return plan, err
	}

	completion := primitives.NewEvent(r.chart.CompletionEvent(), evt.Data)
	for depth := 0; ; depth++ {
		if t.Kind == primitives.Internal {
			break
		}
		s, _ := r.graph.State(plan.Target)
		if !s.Final || s.Parent == "" {
			break
		}
		candidates := r.table.CandidatesFor(s.Parent, completion.Type)
		if len(candidates) == 0 {
			break
		}
		t = r.firstSatisfied(ctx, candidates, completion)
		if t == nil {
			break
		}
		if depth >= MaxCompletionDepth {
			return plan, fmt.Errorf("%w: still in final state %q after %d completions", ErrCompletionLoop, plan.Target, depth)
		}
		if err := r.apply(plan, s.Parent, t, completion, hist); err != nil {
			return plan, err
		}
	}
	return plan, nil
}

// apply appends the chain for t to plan. Exiting starts at from, which is the
// current leaf or, during a completion cascade, the parent of the final leaf.
func (r *Resolver) apply(plan *Plan, from primitives.StateID, t *primitives.TransitionConfig, evt primitives.Event, hist *HistoryStore) error {
	plan.Transitions = append(plan.Transitions, t)
	action := Step{
		Phase:   PhaseTransition,
		State:   t.Source,
		From:    t.Source,
		To:      t.Target,
		Event:   evt,
		Kind:    t.Kind,
		Actions: t.Actions,
	}

	if t.Kind == primitives.Internal {
		plan.Steps = append(plan.Steps, action)
		return nil
	}

	var exitBound, entryBound primitives.StateID
	switch {
	case t.Kind == primitives.Local && (t.Source == t.Target || r.graph.IsDescendant(t.Target, t.Source)):
		exitBound, entryBound = t.Source, t.Source
	case t.Kind == primitives.Local:
		exitBound, entryBound = t.Target, t.Target
	default:
		domain, err := r.domain(t.Source, t.Target)
		if err != nil {
			return err
		}
		exitBound, entryBound = domain, domain
	}

	if err := r.exitChain(plan, from, exitBound, t, evt, hist); err != nil {
		return err
	}
	plan.Steps = append(plan.Steps, action)
	if err := r.entryChain(plan, entryBound, t, evt); err != nil {
		return err
	}
	leaf := r.descend(plan, t.Target, t, evt, hist)
	plan.Target = leaf
	return nil
}

// domain returns the state that an external transition neither exits nor
// enters. When source and target are nested (or equal) the outer one is left
// and re-entered, so the domain is its parent.
func (r *Resolver) domain(source, target primitives.StateID) (primitives.StateID, error) {
	switch {
	case source == target || r.graph.IsDescendant(target, source):
		return r.graph.Parent(source)
	case r.graph.IsDescendant(source, target):
		return r.graph.Parent(target)
	default:
		return r.graph.LowestCommonAncestor(source, target)
	}
}

// exitChain appends exits from `from` up to bound (exclusive), innermost
// first. An empty bound exits up to and including the root.
func (r *Resolver) exitChain(plan *Plan, from, bound primitives.StateID, t *primitives.TransitionConfig, evt primitives.Event, hist *HistoryStore) error {
	fromPath, err := r.graph.AncestorsOf(from)
	if err != nil {
		return err
	}
	leafPath, err := r.graph.AncestorsOf(plan.Target)
	if err != nil {
		return err
	}
	for i := len(fromPath) - 1; i >= 0; i-- {
		id := fromPath[i]
		if id == bound {
			break
		}
		r.recordExit(id, leafPath, hist)
		s, _ := r.graph.State(id)
		plan.Steps = append(plan.Steps, Step{
			Phase:   PhaseExit,
			State:   id,
			From:    t.Source,
			To:      t.Target,
			Event:   evt,
			Kind:    t.Kind,
			Actions: s.Exit,
		})
	}
	return nil
}

// recordExit stores the part of leafPath below id when id is composite.
func (r *Resolver) recordExit(id primitives.StateID, leafPath []primitives.StateID, hist *HistoryStore) {
	if hist == nil {
		return
	}
	for i, s := range leafPath {
		if s == id && i+1 < len(leafPath) {
			hist.Record(id, leafPath[i+1:])
			return
		}
	}
}

// entryChain appends entries from just below bound down to the target,
// outermost first. An empty bound enters from the root.
func (r *Resolver) entryChain(plan *Plan, bound primitives.StateID, t *primitives.TransitionConfig, evt primitives.Event) error {
	targetPath, err := r.graph.AncestorsOf(t.Target)
	if err != nil {
		return err
	}
	start := 0
	if bound != "" {
		start = len(targetPath)
		for i, id := range targetPath {
			if id == bound {
				start = i + 1
				break
			}
		}
	}
	for _, id := range targetPath[start:] {
		plan.Steps = append(plan.Steps, r.entryStep(id, t.Source, t.Target, t.Kind, evt))
	}
	return nil
}

// descend completes the entry below target until a leaf is reached and
// returns that leaf.
func (r *Resolver) descend(plan *Plan, target primitives.StateID, t *primitives.TransitionConfig, evt primitives.Event, hist *HistoryStore) primitives.StateID {
	from, to, kind := primitives.StateID(""), target, primitives.External
	if t != nil {
		from, to, kind = t.Source, t.Target, t.Kind
	}
	cur := target
	for !r.graph.IsLeaf(cur) {
		var next []primitives.StateID
		if hist != nil {
			next = hist.ResolveEntry(cur)
		} else {
			s, _ := r.graph.State(cur)
			next = []primitives.StateID{s.Initial}
		}
		if len(next) == 0 {
			break
		}
		for _, id := range next {
			plan.Steps = append(plan.Steps, r.entryStep(id, from, to, kind, evt))
		}
		cur = next[len(next)-1]
	}
	return cur
}

func (r *Resolver) entryStep(id, from, to primitives.StateID, kind primitives.TransitionKind, evt primitives.Event) Step {
	s, _ := r.graph.State(id)
	return Step{
		Phase:   PhaseEntry,
		State:   id,
		From:    from,
		To:      to,
		Event:   evt,
		Kind:    kind,
		Actions: s.Entry,
	}
}

// StartPlan computes the entry chain from the root down to the chart's
// initial state and on to a leaf.
func (r *Resolver) StartPlan(evt primitives.Event, hist *HistoryStore) (*Plan, error) {
	initial := r.chart.Initial()
	path, err := r.graph.AncestorsOf(initial)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Handled: true}
	for _, id := range path {
		plan.Steps = append(plan.Steps, r.entryStep(id, "", initial, primitives.External, evt))
	}
	plan.Target = r.descend(plan, initial, nil, evt, hist)
	return plan, nil
}

// TerminatePlan computes the exit chain from leaf up to and including its
// root. Exited composites are recorded in hist.
func (r *Resolver) TerminatePlan(leaf primitives.StateID, evt primitives.Event, hist *HistoryStore) (*Plan, error) {
	plan := &Plan{Handled: true, Source: leaf, Target: leaf}
	t := &primitives.TransitionConfig{Source: leaf, Kind: primitives.External}
	if err := r.exitChain(plan, leaf, "", t, evt, hist); err != nil {
		return nil, err
	}
	plan.Target = ""
	return plan, nil
}
