package rencom

import "iter"

// paginate drives repeated offset-based fetches, yielding items one at a
// time. fetch returns one page starting at the given offset plus whether
// more pages exist. Fetching is lazy: breaking out of the loop stops
// further requests, and the first error ends the sequence after being
// yielded once with a zero item.
func paginate[T any](limit int, fetch func(offset int) ([]T, bool, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		offset := 0
		for {
			items, hasMore, err := fetch(offset)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			if !hasMore {
				return
			}
			offset += limit
		}
	}
}
