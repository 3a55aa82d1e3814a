package vdom

// lis returns the indexes of a longest strictly increasing subsequence of
// a, ignoring -1 entries.
func lis(a []int) []int {
	prev := make([]int, len(a))
	result := make([]int, 0, len(a))

	for i, v := range a {
		if v == -1 {
			continue
		}
		if n := len(result); n == 0 || a[result[n-1]] < v {
			if n > 0 {
				prev[i] = result[n-1]
			}
			result = append(result, i)
			continue
		}

		lo, hi := 0, len(result)-1
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if a[result[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if v < a[result[lo]] {
			if lo > 0 {
				prev[i] = result[lo-1]
			}
			result[lo] = i
		}
	}

	if len(result) == 0 {
		return result
	}
	for u, v := len(result)-1, result[len(result)-1]; u >= 0; u-- {
		result[u] = v
		v = prev[v]
	}
	return result
}
