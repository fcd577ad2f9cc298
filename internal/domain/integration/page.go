package integration

import (
	"context"
	"iter"
)

// Page is one bounded slice of a remote collection.
type Page[T any] struct {
	Items []T
	// NextCursor is opaque to callers and empty on the last page.
	NextCursor string
}

// HasMore reports whether another page follows this one
func (p Page[T]) HasMore() bool {
	return p.NextCursor != ""
}

// PageFetcher fetches the page addressed by cursor.
type PageFetcher[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Paginate returns a lazy sequence over every page starting at cursor.
//
// Nothing is fetched until the sequence is ranged over, and each range starts
// again from cursor, so the sequence can be restarted from any cursor a caller
// saved. Iteration ends after the last page, after the first error (yielded
// with a zero page), when the consumer stops, or when ctx is done.
func Paginate[T any](ctx context.Context, cursor string, fetch PageFetcher[T]) iter.Seq2[Page[T], error] {
	return func(yield func(Page[T], error) bool) {
		next := cursor
		for {
			if err := ctx.Err(); err != nil {
				yield(Page[T]{}, err)
				return
			}
			page, err := fetch(ctx, next)
			if err != nil {
				yield(Page[T]{}, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if !page.HasMore() || page.NextCursor == next {
				return
			}
			next = page.NextCursor
		}
	}
}
