// Package dedupe keeps the last occurrence of each key in ordered data.
package dedupe

// KeepLast returns the last item for every key, ordered by the position of
// that last occurrence. The input is not modified.
func KeepLast[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) == 0 {
		return nil
	}
	last := make(map[K]int, len(items))
	for i, it := range items {
		last[key(it)] = i
	}
	out := make([]T, 0, len(last))
	for i, it := range items {
		if last[key(it)] == i {
			out = append(out, it)
		}
	}
	return out
}
