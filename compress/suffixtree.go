// Package compress finds reusable spans in coded sequences. A suffix tree
// over the ranked alphabet exposes every maximal repeat; the selector
// turns the best ones into a copy plan of literals and back-references.
package compress

import (
	"tiaforge/sequence"
)

const noNode = -1

// node is one suffix tree locus. The tree owns its nodes in an arena and
// links them by index; children is dense over the alphabet.
type node struct {
	parent   int
	slink    int
	children []int
	isLeaf   bool
	start    int
	depth    int
}

// SuffixTree is a McCreight suffix tree over one ranked sequence. The
// sequence must end with the unique rank-0 sentinel so every suffix ends
// at a leaf.
type SuffixTree struct {
	nodes        []node
	alphabetSize int
	seq          []sequence.AlphaChar
}

// NewSuffixTree builds the tree in linear time.
// After McCreight 1976, via the classic lecture-note formulation.
func NewSuffixTree(alphabetSize int, seq []sequence.AlphaChar) *SuffixTree {
	t := &SuffixTree{alphabetSize: alphabetSize, seq: seq}
	root := t.newNode(0)
	t.nodes[root].slink = root
	u := root
	d := 0
	for i := 0; i < len(seq); i++ {
		for d == t.nodes[u].depth {
			child := t.child(u, seq[i+d])
			if child == noNode {
				break
			}
			u = child
			d++
			for d < t.nodes[u].depth && seq[t.nodes[u].start+d] == seq[i+d] {
				d++
			}
		}
		if d < t.nodes[u].depth {
			u = t.spliceNode(u, d)
		}
		t.addLeaf(u, i, d)
		if t.nodes[u].slink == noNode {
			t.computeSlink(u)
		}
		u = t.nodes[u].slink
		d = t.nodes[u].depth
	}
	return t
}

func (t *SuffixTree) newNode(depth int) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{
		parent:   noNode,
		slink:    noNode,
		children: make([]int, t.alphabetSize),
		isLeaf:   true,
		depth:    depth,
	})
	for i := range t.nodes[id].children {
		t.nodes[id].children[i] = noNode
	}
	return id
}

func (t *SuffixTree) child(u int, c sequence.AlphaChar) int {
	return t.nodes[u].children[c]
}

// spliceNode splits the edge into u at depth d and returns the new
// internal node.
func (t *SuffixTree) spliceNode(u, d int) int {
	child := t.newNode(d)
	i := t.nodes[u].start
	parent := t.nodes[u].parent
	t.nodes[child].start = i
	t.nodes[child].parent = parent
	t.nodes[child].children[t.seq[i+d]] = u
	t.nodes[parent].children[t.seq[i+t.nodes[parent].depth]] = child
	t.nodes[u].parent = child
	return child
}

func (t *SuffixTree) addLeaf(u, i, d int) int {
	child := t.newNode(len(t.seq) - i)
	t.nodes[child].start = i
	t.nodes[child].parent = u
	t.nodes[u].children[t.seq[i+d]] = child
	t.nodes[u].isLeaf = false
	return child
}

func (t *SuffixTree) computeSlink(u int) {
	d := t.nodes[u].depth
	v := t.nodes[t.nodes[u].parent].slink
	for t.nodes[v].depth < d-1 {
		v = t.nodes[v].children[t.seq[t.nodes[u].start+t.nodes[v].depth+1]]
	}
	if t.nodes[v].depth > d-1 {
		v = t.spliceNode(v, d-1)
	}
	t.nodes[u].slink = v
}

// Root returns the root node id.
func (t *SuffixTree) Root() int { return 0 }

// Depth and Start expose node fields for traversal results.
func (t *SuffixTree) Depth(u int) int   { return t.nodes[u].depth }
func (t *SuffixTree) Start(u int) int   { return t.nodes[u].start }
func (t *SuffixTree) IsLeaf(u int) bool { return t.nodes[u].isLeaf }

// substringStart is the index where the incoming edge's label begins.
func (t *SuffixTree) substringStart(u int) int {
	if t.nodes[u].parent == noNode {
		return t.nodes[u].start
	}
	return t.nodes[u].start + t.nodes[t.nodes[u].parent].depth
}

func (t *SuffixTree) substringEnd(u int) int {
	return t.nodes[u].start + t.nodes[u].depth
}

// Find descends character by character and returns the locus of key, or
// noNode when the key does not occur in the sequence.
func (t *SuffixTree) Find(key []sequence.AlphaChar) int {
	i := 0
	u := t.Root()
	for i < len(key) {
		child := t.child(u, key[i])
		if child == noNode {
			return noNode
		}
		u = child
		j := t.substringStart(u)
		for i < len(key) && j < t.substringEnd(u) {
			if key[i] != t.seq[j] {
				return noNode
			}
			i++
			j++
		}
	}
	return u
}

// Found reports whether a Find result is a real locus.
func Found(u int) bool { return u != noNode }

// FindPrior returns the longest prefix of seq[i:] that also occurs
// entirely within seq[:i], as a (start, length) pair. A node's start is
// the earliest occurrence of its path (suffixes are inserted left to
// right), so the match may end partway down an edge.
func (t *SuffixTree) FindPrior(i int) (start, length int) {
	u := t.Root()
	p := 0
	for {
		child := t.child(u, t.seq[i+p])
		if child == noNode {
			break
		}
		avail := i - t.nodes[child].start
		if avail <= p {
			break
		}
		if t.substringEnd(child) <= i {
			p = t.nodes[child].depth
			u = child
			continue
		}
		if avail < t.nodes[child].depth {
			p = avail
		} else {
			p = t.nodes[child].depth
		}
		return t.nodes[child].start, p
	}
	return t.nodes[u].start, p
}

// GatherLeaves collects the leaves below u in DFS order.
func (t *SuffixTree) GatherLeaves(u int) []int {
	var leaves []int
	stack := []int{u}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range t.nodes[v].children {
			if child == noNode {
				continue
			}
			if t.nodes[child].isLeaf {
				leaves = append(leaves, child)
				continue
			}
			stack = append(stack, child)
		}
	}
	return leaves
}

// FindMaximalSubstring returns the deepest internal node, the locus of
// the longest repeated substring.
func (t *SuffixTree) FindMaximalSubstring() int {
	candidate := noNode
	stack := []int{t.Root()}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range t.nodes[v].children {
			if child == noNode || t.nodes[child].isLeaf {
				continue
			}
			if candidate == noNode || t.nodes[candidate].depth < t.nodes[child].depth {
				candidate = child
			}
			stack = append(stack, child)
		}
	}
	return candidate
}

// GatherLeft collects every left-diverse internal node below u: a node
// whose subtree leaves see at least two distinct preceding characters.
// The leaf at position 0 takes the final character as its left context.
// The return value is the common left character of u's subtree, or -1
// when u itself is diverse.
func (t *SuffixTree) GatherLeft(u int, out *[]int) sequence.AlphaChar {
	leftChar := sequence.AlphaChar(-1)
	isLeftDiverse := false
	for _, child := range t.nodes[u].children {
		if child == noNode {
			continue
		}
		var nextChar sequence.AlphaChar
		if t.nodes[child].isLeaf {
			if t.nodes[child].start > 0 {
				nextChar = t.seq[t.nodes[child].start-1]
			} else {
				nextChar = t.seq[len(t.seq)-1]
			}
		} else {
			nextChar = t.GatherLeft(child, out)
		}
		if nextChar < 0 {
			isLeftDiverse = true
		} else if leftChar < 0 {
			leftChar = nextChar
		} else if leftChar != nextChar {
			isLeftDiverse = true
		}
	}
	if isLeftDiverse && t.nodes[u].depth > 0 {
		*out = append(*out, u)
		return -1
	}
	return leftChar
}
