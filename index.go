package decisionengine

// Index represents the path of child-selection decisions that produced a
// System. It exists in one of two states: committed (no pending suffix) or
// pending (one pending suffix value appended to an immutable committed
// prefix). The committed prefix is a plain slice that is never mutated in
// place once shared, which gives cheap copy-on-write semantics without a
// reference-counted handle: appends always allocate a fresh backing array,
// so two Indexes can safely share the same committed slice header.
type Index struct {
	committed []uint64
	suffix    *uint64
}

// NewIndex returns the root Index: committed, empty, depth zero.
func NewIndex() Index {
	return Index{}
}

// Extend returns a pending Index whose committed prefix is this Index's
// committed prefix (this Index must itself be committed) and whose pending
// suffix is value.
func (idx Index) Extend(value uint64) Index {
	v := value
	return Index{committed: idx.committed, suffix: &v}
}

// HasSuffix reports whether the Index is pending (has an uncommitted suffix).
func (idx Index) HasSuffix() bool { return idx.suffix != nil }

// Depth returns the number of committed values plus one if pending.
func (idx Index) Depth() int {
	d := len(idx.committed)
	if idx.suffix != nil {
		d++
	}
	return d
}

// Commit converts a pending Index into a committed one by appending the
// suffix to a freshly allocated prefix. Fails InvalidOperation when called
// on an already-committed Index.
func (idx Index) Commit() (Index, error) {
	if idx.suffix == nil {
		return Index{}, newKindError(KindInvalidOperation, ErrIndexCommitted)
	}
	committed := make([]uint64, len(idx.committed)+1)
	copy(committed, idx.committed)
	committed[len(idx.committed)] = *idx.suffix
	return Index{committed: committed}, nil
}

// Copy clones a committed Index. Fails InvalidOperation when called on a
// pending Index.
func (idx Index) Copy() (Index, error) {
	if idx.suffix != nil {
		return Index{}, newKindError(KindInvalidOperation, ErrIndexPending)
	}
	return Index{committed: idx.committed}, nil
}

// Enumerate iterates the Index's values in insertion order, calling fn for
// each. Iteration stops early if fn returns false.
func (idx Index) Enumerate(fn func(value uint64) bool) {
	for _, v := range idx.committed {
		if !fn(v) {
			return
		}
	}
	if idx.suffix != nil {
		fn(*idx.suffix)
	}
}

func (idx Index) at(i int) (uint64, bool) {
	if i < len(idx.committed) {
		return idx.committed[i], true
	}
	if i == len(idx.committed) && idx.suffix != nil {
		return *idx.suffix, true
	}
	return 0, false
}

// CompareIndex implements the "greater is better" reverse-lexicographic
// ordering from spec §4.1: walking both sequences from the start, at the
// first difference the greater numeric value sorts less (it represents a
// less-preferred, right-trending branch); on prefix equality the shorter
// sequence sorts greater. Returns >0 if a is greater (better) than b, <0 if
// a is less than b, 0 if equal.
func CompareIndex(a, b Index) int {
	depthA, depthB := a.Depth(), b.Depth()
	for i := 0; i < depthA && i < depthB; i++ {
		va, _ := a.at(i)
		vb, _ := b.at(i)
		switch {
		case va > vb:
			return -1
		case va < vb:
			return 1
		}
	}
	switch {
	case depthA == depthB:
		return 0
	case depthA < depthB:
		return 1
	default:
		return -1
	}
}
