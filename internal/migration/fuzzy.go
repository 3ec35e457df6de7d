package migration

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"equipos-backend/internal/config"
)

// containmentScore is the minimum score of a name contained in the candidate.
const containmentScore = 0.95

// Normalize lowercases s, strips accents, applies the synonym rules in order,
// replaces punctuation with spaces and collapses whitespace.
func Normalize(s string, synonyms []config.SynonymRule) string {
	if s == "" {
		return ""
	}
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}
	padded := " " + stripped + " "
	for _, rule := range synonyms {
		padded = strings.ReplaceAll(padded, rule.From, rule.To)
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, padded)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Score compares a normalized candidate with a normalized equipment name.
// It takes the better ratio in either direction, and a name contained in the
// candidate scores at least 0.95.
func Score(candidate, name string) float64 {
	score := Ratio(candidate, name)
	if r := Ratio(name, candidate); r > score {
		score = r
	}
	if name != "" && strings.Contains(candidate, name) && score < containmentScore {
		score = containmentScore
	}
	return score
}

// Ratio returns the similarity of a and b as 2*M/T, where M is the number of
// characters in the matching blocks found by recursively taking the longest
// common substring and T is the total length. Empty inputs score 0.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	m := newMatcher(ra, rb)
	return 2 * float64(m.matches()) / float64(len(ra)+len(rb))
}

type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newMatcher(a, b []rune) *matcher {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	// Elements that make up more than 1% of a long b are ignored when
	// seeding matches.
	if n := len(b); n >= 200 {
		limit := n/100 + 1
		for r, idx := range b2j {
			if len(idx) > limit {
				delete(b2j, r)
			}
		}
	}
	return &matcher{a: a, b: b, b2j: b2j}
}

func (m *matcher) longest(alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestsize = besti-1, bestj-1, bestsize+1
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi && m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}
	return besti, bestj, bestsize
}

func (m *matcher) matches() int {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	total := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		i, j, k := m.longest(s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		total += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return total
}
