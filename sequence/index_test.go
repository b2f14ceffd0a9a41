package sequence

import (
	"testing"

	"tiaforge/capture"
)

func seqOf(vals ...byte) *capture.Sequence {
	q := capture.NewSequence()
	for _, v := range vals {
		q.UpdateState(capture.FilledState(v))
		q.Intervals[len(q.Intervals)-1].Duration = 1
	}
	return q
}

func TestFindCommon(t *testing.T) {
	dumps := map[string]*capture.Sequence{
		"SEQ_S00_O00_R00_C00": seqOf(1, 2),
		"SEQ_S00_O00_R01_C00": seqOf(1, 2),
		"SEQ_S00_O00_R02_C00": seqOf(3),
	}
	index, err := FindCommon(dumps, true)
	if err != nil {
		t.Fatal(err)
	}

	if len(index.Canonical) != 2 {
		t.Errorf("got %d classes, want 2", len(index.Canonical))
	}

	rep := index.Representative
	if rep["SEQ_S00_O00_R00_C00"] != "SEQ_S00_O00_R00_C00" {
		t.Errorf("first inserter should be its own representative, got %s", rep["SEQ_S00_O00_R00_C00"])
	}
	if rep["SEQ_S00_O00_R01_C00"] != "SEQ_S00_O00_R00_C00" {
		t.Errorf("duplicate should map to the canonical key, got %s", rep["SEQ_S00_O00_R01_C00"])
	}
	if rep["SEQ_S00_O00_R02_C00"] != "SEQ_S00_O00_R02_C00" {
		t.Errorf("distinct sequence should stand alone, got %s", rep["SEQ_S00_O00_R02_C00"])
	}

	hash := dumps["SEQ_S00_O00_R00_C00"].Hash()
	if index.Frequency[hash] != 2 {
		t.Errorf("class frequency = %d, want 2", index.Frequency[hash])
	}

	forms := index.Waveforms()
	if len(forms) != 2 || forms[0].Frequency != 2 {
		t.Errorf("waveform order should lead with the most frequent class: %v", forms)
	}
}

func TestCreateAlphabet(t *testing.T) {
	freq := map[AlphaCode]int{
		0:  9, // terminator must stay pinned regardless of counts
		10: 3,
		20: 5,
		30: 3,
	}
	a := CreateAlphabet(freq)
	want := []AlphaCode{0, 20, 10, 30}
	if len(a.Codes) != len(want) {
		t.Fatalf("alphabet = %v, want %v", a.Codes, want)
	}
	for i, code := range want {
		if a.Codes[i] != code {
			t.Errorf("rank %d = %d, want %d", i, a.Codes[i], code)
		}
		if a.Rank[code] != AlphaChar(i) {
			t.Errorf("rank of %d = %d, want %d", code, a.Rank[code], i)
		}
	}
}

func TestTranslateAppendsSentinel(t *testing.T) {
	a := CreateAlphabet(map[AlphaCode]int{5: 2, 6: 1})
	got := a.Translate([]AlphaCode{5, 6, 5})
	want := []AlphaChar{1, 2, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEntropy(t *testing.T) {
	// four equiprobable symbols carry two bits each
	freq := map[AlphaCode]int{1: 4, 2: 4, 3: 4, 4: 4}
	got := Entropy(freq, 16)
	if got < 1.999 || got > 2.001 {
		t.Errorf("entropy = %f, want 2.0", got)
	}
	if Entropy(nil, 0) != 0 {
		t.Error("empty input should carry no information")
	}
}
