package phfwd

import "strings"

// Numbers is the result of a query: an ordered list of distinct numbers.
//
// A query given an invalid number produces a list holding a single absent
// element. Len reports 1 for it but Get never yields a value.
type Numbers struct {
	numbers []string
	absent  bool
}

func absentNumbers() *Numbers {
	return &Numbers{absent: true}
}

func newNumbers(numbers ...string) *Numbers {
	return &Numbers{numbers: numbers}
}

func (n *Numbers) Len() int {
	if n == nil {
		return 0
	}
	if n.absent {
		return 1
	}
	return len(n.numbers)
}

// Get returns the number at idx. The second value is false when idx is
// out of range or the element is absent.
func (n *Numbers) Get(idx int) (string, bool) {
	if n == nil || n.absent || idx < 0 || idx >= len(n.numbers) {
		return "", false
	}
	return n.numbers[idx], true
}

// Valid is false for the degenerate result of a query on an invalid number.
func (n *Numbers) Valid() bool {
	return n != nil && !n.absent
}

// Slice returns a copy of the numbers held. It is empty for an absent result.
func (n *Numbers) Slice() []string {
	if n == nil || n.absent {
		return []string{}
	}
	retval := make([]string, len(n.numbers))
	copy(retval, n.numbers)
	return retval
}

func (n *Numbers) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.absent {
		return "[<absent>]"
	}
	return "[" + strings.Join(n.numbers, " ") + "]"
}
