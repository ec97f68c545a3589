package phfwd

import (
	"sort"
	"strings"

	"gitlab.com/pnathan/phfwd/src/lib/utility"
)

// Reverse lists every number some rule would turn into num, plus num
// itself, sorted by Compare and without duplicates.
//
// Candidates are built from any rule whose target is a prefix of num,
// without checking that the rule is the one Get would pick for them; see
// GetReverse for the exact inverse.
func (pf *PhoneForward) Reverse(num string) *Numbers {
	if pf == nil {
		return nil
	}
	if !ValidNumber(num) {
		return absentNumbers()
	}

	found := []string{num}
	pf.root.walk(make([]byte, 0, len(num)), func(path []byte, n *node) {
		if n.target != "" && strings.HasPrefix(num, n.target) {
			found = append(found, string(path)+num[len(n.target):])
		}
	})

	sort.Slice(found, func(i, j int) bool {
		return Less(found[i], found[j])
	})
	return newNumbers(utility.Compact(found)...)
}

// GetReverse is Reverse restricted to the numbers that Get resolves to num.
func (pf *PhoneForward) GetReverse(num string) *Numbers {
	if pf == nil {
		return nil
	}
	candidates := pf.Reverse(num)
	if !candidates.Valid() {
		return candidates
	}

	consistent := []string{}
	for _, candidate := range candidates.numbers {
		if pf.resolve(candidate) == num {
			consistent = append(consistent, candidate)
		}
	}
	return newNumbers(consistent...)
}
