package pipeline

import "context"

// MapSeries applies fn to items one at a time, in order, and collects the
// results. It stops at the first error and checks ctx before every item.
func MapSeries[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := fn(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
