// Package fallback implements the ordered-fallback pattern used across the
// collector: try a list of extractor functions in priority order and keep the
// first usable result. Message text, chat ids and coupon codes all arrive in
// several provider shapes, and each caller supplies its own ordered list.
package fallback

// Extractor attempts to derive R from T. The second return value reports
// whether the result is usable.
type Extractor[T, R any] func(T) (R, bool)

// First runs the extractors in order and returns the first usable result.
func First[T, R any](in T, extractors ...Extractor[T, R]) (R, bool) {
	for _, extract := range extractors {
		if out, ok := extract(in); ok {
			return out, true
		}
	}
	var zero R
	return zero, false
}

// FirstNonEmpty is First specialised for extractors producing slices: a
// result is usable when it has at least one element.
func FirstNonEmpty[T, R any](in T, extractors ...func(T) []R) []R {
	for _, extract := range extractors {
		if out := extract(in); len(out) > 0 {
			return out
		}
	}
	return nil
}
