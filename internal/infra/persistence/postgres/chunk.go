package postgres

// chunked splits keys into slices of at most size elements, so membership
// queries stay within the backend's batch limits.
func chunked[T any](keys []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}

	var out [][]T
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		out = append(out, keys[start:end])
	}

	return out
}
