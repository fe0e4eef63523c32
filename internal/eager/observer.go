package eager

import "context"

// Observer receives one call per batched association load.
type Observer interface {
	ObserveBatch(ctx context.Context, field string, parents, keys, rows int)
}

type observerKey struct{}

// WithObserver attaches an observer to the context.
func WithObserver(ctx context.Context, observer Observer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerKey{}, observer)
}

func observeBatch(ctx context.Context, field string, parents, keys, rows int) {
	if ctx == nil {
		return
	}
	if observer, ok := ctx.Value(observerKey{}).(Observer); ok && observer != nil {
		observer.ObserveBatch(ctx, field, parents, keys, rows)
	}
}
