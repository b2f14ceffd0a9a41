// Package sequence groups row-aligned channel-state sequences into
// hash-identity classes and builds the coded alphabet over them.
package sequence

import (
	"fmt"
	"os"
	"sort"

	"tiaforge/capture"
)

// CommonIndex is the result of deduplicating row sequences by hash.
type CommonIndex struct {
	// Canonical maps each class hash to the first row key that produced
	// it.
	Canonical map[uint64]string
	// Frequency counts the members of each class.
	Frequency map[uint64]int
	// Representative maps every row key to its class's canonical key.
	Representative map[string]string
}

// FindCommon partitions the sequences into equivalence classes. Two
// sequences are equivalent when their polynomial hashes agree; the first
// key to produce a hash becomes the class representative. When a later
// member disagrees structurally with its representative the hash has
// collided: strict mode fails, otherwise the collision is logged and the
// class keeps both members.
func FindCommon(dumps map[string]*capture.Sequence, strict bool) (CommonIndex, error) {
	index := CommonIndex{
		Canonical:      make(map[uint64]string),
		Frequency:      make(map[uint64]int),
		Representative: make(map[string]string),
	}
	keys := make([]string, 0, len(dumps))
	for key := range dumps {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		seq := dumps[key]
		hash := seq.Hash()
		canonical, seen := index.Canonical[hash]
		if !seen {
			index.Canonical[hash] = key
			index.Frequency[hash] = 1
			index.Representative[key] = key
			continue
		}
		if !equalSequences(seq, dumps[canonical]) {
			if strict {
				return CommonIndex{}, fmt.Errorf("hash collision: %s and %s share %d but differ", key, canonical, hash)
			}
			fmt.Fprintf(os.Stderr, "warning: hash collision between %s and %s\n", key, canonical)
		}
		index.Frequency[hash]++
		index.Representative[key] = canonical
	}
	return index, nil
}

func equalSequences(a, b *capture.Sequence) bool {
	if a.InitialState != b.InitialState || len(a.Intervals) != len(b.Intervals) {
		return false
	}
	for i := range a.Intervals {
		if a.Intervals[i] != b.Intervals[i] {
			return false
		}
	}
	return true
}

// Waveforms lists the classes as (hash, canonical key) pairs ordered by
// descending frequency with ascending hash as the tie-break, the same
// order the alphabet uses.
func (x CommonIndex) Waveforms() []Waveform {
	forms := make([]Waveform, 0, len(x.Canonical))
	for hash, key := range x.Canonical {
		forms = append(forms, Waveform{Hash: hash, Key: key, Frequency: x.Frequency[hash]})
	}
	sort.Slice(forms, func(i, j int) bool {
		if forms[i].Frequency != forms[j].Frequency {
			return forms[i].Frequency > forms[j].Frequency
		}
		return forms[i].Hash < forms[j].Hash
	})
	return forms
}

// Waveform is one equivalence class of row sequences.
type Waveform struct {
	Hash      uint64
	Key       string
	Frequency int
}
