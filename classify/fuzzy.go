package classify

import "strings"

// PartialRatio scores how well the shorter string appears inside the longer
// one, on a 0-100 scale. Every alignment of the shorter string against the
// longer is tried, including alignments hanging off either edge, and the
// best normalized Indel similarity wins. A score of 100 means the shorter
// string occurs verbatim.
//
// Comparison is rune-wise and case-sensitive; callers fold case first.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	shortStr, longStr := a, b
	if len(short) > len(long) {
		short, long = long, short
		shortStr, longStr = longStr, shortStr
	}
	n := len(short)
	if n == 0 {
		return 0
	}
	if strings.Contains(longStr, shortStr) {
		return 100
	}

	m := newMatcher(short)
	best := 0.0

	// consider scores window unless bound, an upper limit on its LCS with
	// the needle, shows it cannot beat best.
	consider := func(window []rune, bound int) bool {
		total := float64(n + len(window))
		if 200*float64(bound)/total <= best {
			return false
		}
		if s := 200 * float64(m.lcs(window)) / total; s > best {
			best = s
		}
		return best >= 100
	}

	// Windows clipped at the left edge.
	for end := 1; end < n; end++ {
		if consider(long[:end], end) {
			return best
		}
	}

	// Full-length windows. common counts the window runes the needle could
	// pair with, maintained as the window slides.
	have := make(map[rune]int, len(m.need))
	common := 0
	add := func(r rune) {
		if need := m.need[r]; need > 0 {
			if have[r] < need {
				common++
			}
			have[r]++
		}
	}
	drop := func(r rune) {
		if need := m.need[r]; need > 0 {
			have[r]--
			if have[r] < need {
				common--
			}
		}
	}
	for i := 0; i < n && i < len(long); i++ {
		add(long[i])
	}
	for start := 0; start+n <= len(long); start++ {
		if start > 0 {
			drop(long[start-1])
			add(long[start+n-1])
		}
		if consider(long[start:start+n], common) {
			return best
		}
	}

	// Windows clipped at the right edge.
	for start := max(len(long)-n+1, 0); start < len(long); start++ {
		if consider(long[start:], len(long)-start) {
			return best
		}
	}

	return best
}

// matcher computes longest common subsequences against a fixed needle,
// reusing its DP rows between windows.
type matcher struct {
	needle    []rune
	need      map[rune]int
	prev, cur []int
}

func newMatcher(needle []rune) *matcher {
	need := make(map[rune]int, len(needle))
	for _, r := range needle {
		need[r]++
	}
	return &matcher{
		needle: needle,
		need:   need,
		prev:   make([]int, len(needle)+1),
		cur:    make([]int, len(needle)+1),
	}
}

// lcs returns the length of the longest common subsequence of the needle
// and b.
func (m *matcher) lcs(b []rune) int {
	clear(m.prev)
	for _, rb := range b {
		m.cur[0] = 0
		for j, ra := range m.needle {
			switch {
			case ra == rb:
				m.cur[j+1] = m.prev[j] + 1
			case m.prev[j+1] >= m.cur[j]:
				m.cur[j+1] = m.prev[j+1]
			default:
				m.cur[j+1] = m.cur[j]
			}
		}
		m.prev, m.cur = m.cur, m.prev
	}
	return m.prev[len(m.needle)]
}
