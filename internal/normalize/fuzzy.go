package normalize

// boundedLevenshtein computes the edit distance between a and b, giving up
// early once the distance provably exceeds maxDist. Returns maxDist+1 in
// that case so callers can reject without a sentinel check.
func boundedLevenshtein(a, b string, maxDist int) int {
	ra := []rune(a)
	rb := []rune(b)

	if abs(len(ra)-len(rb)) > maxDist {
		return maxDist + 1
	}
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > maxDist {
			return maxDist + 1
		}
		prev, curr = curr, prev
	}

	if prev[len(rb)] > maxDist {
		return maxDist + 1
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
