package sequence

import (
	"math"
	"sort"
)

// AlphaCode is an abstract code emitted by the delta encoder. Code 0 is
// reserved for the stream terminator.
type AlphaCode uint64

// AlphaChar is a code's rank in the alphabet.
type AlphaChar int

// Alphabet is the finite ordered code set of one song. Rank 0 is always
// the terminator; the rest rank by descending frequency, ascending code.
type Alphabet struct {
	Codes []AlphaCode
	Rank  map[AlphaCode]AlphaChar
}

// CreateAlphabet builds the alphabet from a code frequency map. Code 0 is
// pinned at rank 0 whether or not it was counted.
func CreateAlphabet(frequency map[AlphaCode]int) Alphabet {
	type entry struct {
		code AlphaCode
		freq int
	}
	entries := make([]entry, 0, len(frequency))
	for code, freq := range frequency {
		if code == 0 {
			continue
		}
		entries = append(entries, entry{code, freq})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].freq != entries[j].freq {
			return entries[i].freq > entries[j].freq
		}
		return entries[i].code < entries[j].code
	})
	a := Alphabet{
		Codes: make([]AlphaCode, 0, len(entries)+1),
		Rank:  make(map[AlphaCode]AlphaChar, len(entries)+1),
	}
	a.Codes = append(a.Codes, 0)
	a.Rank[0] = 0
	for _, e := range entries {
		a.Rank[e.code] = AlphaChar(len(a.Codes))
		a.Codes = append(a.Codes, e.code)
	}
	return a
}

// Size is the number of distinct codes including the terminator.
func (a Alphabet) Size() int {
	return len(a.Codes)
}

// Translate maps a code stream to ranks and appends the rank-0 sentinel,
// which the suffix tree requires to be unique at the end.
func (a Alphabet) Translate(codes []AlphaCode) []AlphaChar {
	out := make([]AlphaChar, 0, len(codes)+1)
	for _, code := range codes {
		out = append(out, a.Rank[code])
	}
	return append(out, 0)
}

// Entropy is the Shannon entropy in bits per symbol of a frequency map,
// terminator excluded. total is the symbol count the frequencies were
// drawn from.
func Entropy(frequency map[AlphaCode]int, total int) float64 {
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for code, freq := range frequency {
		if code == 0 || freq == 0 {
			continue
		}
		p := float64(freq) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
