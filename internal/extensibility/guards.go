package extensibility

import (
	"context"
	"reflect"

	"github.com/comalice/hsmx/internal/primitives"
)

// Always is a guard that is always satisfied.
func Always(context.Context, primitives.StateID, primitives.StateID, primitives.Event) (bool, error) {
	return true, nil
}

// Never is a guard that is never satisfied.
func Never(context.Context, primitives.StateID, primitives.StateID, primitives.Event) (bool, error) {
	return false, nil
}

// And is satisfied when every guard is. Evaluation stops at the first guard
// that fails or errors. A nil guard counts as satisfied.
func And(guards ...primitives.Guard) primitives.Guard {
	return func(ctx context.Context, from, to primitives.StateID, evt primitives.Event) (bool, error) {
		for _, g := range guards {
			if g == nil {
				continue
			}
			ok, err := g(ctx, from, to, evt)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Or is satisfied when any guard is. Errors are returned only when no guard
// is satisfied.
func Or(guards ...primitives.Guard) primitives.Guard {
	return func(ctx context.Context, from, to primitives.StateID, evt primitives.Event) (bool, error) {
		var firstErr error
		for _, g := range guards {
			if g == nil {
				return true, nil
			}
			ok, err := g(ctx, from, to, evt)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if ok {
				return true, nil
			}
		}
		return false, firstErr
	}
}

// Not inverts g. Errors are passed through.
func Not(g primitives.Guard) primitives.Guard {
	return func(ctx context.Context, from, to primitives.StateID, evt primitives.Event) (bool, error) {
		if g == nil {
			return false, nil
		}
		ok, err := g(ctx, from, to, evt)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// DataEquals is satisfied when the event data deeply equals v.
func DataEquals(v any) primitives.Guard {
	return func(_ context.Context, _, _ primitives.StateID, evt primitives.Event) (bool, error) {
		return reflect.DeepEqual(evt.Data, v), nil
	}
}

// DataMatches is satisfied when the event data is a T and pred holds for it.
func DataMatches[T any](pred func(T) bool) primitives.Guard {
	return func(_ context.Context, _, _ primitives.StateID, evt primitives.Event) (bool, error) {
		v, ok := evt.Data.(T)
		if !ok {
			return false, nil
		}
		return pred(v), nil
	}
}
