package ranking

// Ratio returns the normalized InDel similarity of a and b on a 0-100 scale:
// 100 * (1 - indel(a, b) / (len(a) + len(b))), where indel is the minimum
// number of single-character insertions and deletions turning a into b.
// Two empty strings are identical (100). Lengths are counted in runes and
// the comparison is case-sensitive.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	runesA := []rune(a)
	runesB := []rune(b)
	total := len(runesA) + len(runesB)
	if total == 0 {
		return 100
	}
	lcs := LCSLength(runesA, runesB)
	return 100 * float64(2*lcs) / float64(total)
}

// LCSLength returns the length of the longest common subsequence of a and b.
func LCSLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Keep the shorter sequence as the row to bound memory
	if len(b) > len(a) {
		a, b = b, a
	}

	// We only need two rows at a time
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		curr[0] = 0
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = maxInt(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func maxInt(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
