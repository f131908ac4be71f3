package usecase

// Partition splits keys into consecutive chunks of at most size elements. The
// last chunk may be shorter. Empty input yields no chunks.
func Partition[T any](keys []T, size int) [][]T {
	if len(keys) == 0 {
		return nil
	}
	if size < 1 {
		return [][]T{keys}
	}

	out := make([][]T, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		out = append(out, keys[start:end])
	}

	return out
}
