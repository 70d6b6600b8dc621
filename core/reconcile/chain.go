package reconcile

import "context"

// Step is one named lookup strategy. Find reports ok=false to pass to the next step.
type Step[K, V any] struct {
	Name string
	Find func(ctx context.Context, key K) (value V, ok bool, err error)
}

// Chain evaluates its steps in order and stops at the first hit.
type Chain[K, V any] []Step[K, V]

// Resolve returns the first hit and the name of the step that produced it.
// An error from any step stops the chain.
func (c Chain[K, V]) Resolve(ctx context.Context, key K) (V, string, bool, error) {
	var zero V
	for _, step := range c {
		value, ok, err := step.Find(ctx, key)
		if err != nil {
			return zero, step.Name, false, err
		}
		if ok {
			return value, step.Name, true, nil
		}
	}
	return zero, "", false, nil
}

// Names lists the step names in evaluation order.
func (c Chain[K, V]) Names() []string {
	names := make([]string, len(c))
	for i, step := range c {
		names[i] = step.Name
	}
	return names
}
