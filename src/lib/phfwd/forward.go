// Package phfwd keeps phone number forwarding rules in a twelve-way prefix
// trie and resolves numbers through them in both directions.
//
// A PhoneForward is not safe for concurrent use; wrap it in a Guarded when
// several goroutines share it.
package phfwd

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrSelfForward   = errors.New("number forwarded onto itself")
	ErrNoForward     = errors.New("no forwarding trie")
)

// Rule forwards every number starting with Prefix by replacing that prefix
// with Target.
type Rule struct {
	Prefix string `json:"prefix"`
	Target string `json:"target"`
}

type node struct {
	// target is empty when no rule ends at this node.
	target   string
	children [base]*node
}

type PhoneForward struct {
	root *node
}

func New() *PhoneForward {
	return &PhoneForward{root: &node{}}
}

// Delete drops every rule and node. The trie is empty afterwards.
func (pf *PhoneForward) Delete() {
	if pf == nil {
		return
	}
	pf.root = &node{}
}

// Add registers a rule forwarding num1 onto num2, replacing any rule
// previously registered for exactly num1. Nothing is changed when an
// error is returned.
func (pf *PhoneForward) Add(num1, num2 string) error {
	if pf == nil {
		return ErrNoForward
	}
	if !ValidNumber(num1) {
		return errors.Wrapf(ErrInvalidNumber, "prefix %q", num1)
	}
	if !ValidNumber(num2) {
		return errors.Wrapf(ErrInvalidNumber, "target %q", num2)
	}
	if num1 == num2 {
		return errors.Wrapf(ErrSelfForward, "%q", num1)
	}

	n := pf.root
	for i := 0; i < len(num1); i++ {
		code := Code(num1[i])
		if n.children[code] == nil {
			n.children[code] = &node{}
		}
		n = n.children[code]
	}
	n.target = num2
	return nil
}

// Remove deletes the rule for num together with every rule whose prefix
// starts with num. Invalid or unknown numbers are ignored.
func (pf *PhoneForward) Remove(num string) {
	if pf == nil || !ValidNumber(num) {
		return
	}
	parent := pf.root
	last := len(num) - 1
	for i := 0; i < last; i++ {
		parent = parent.children[Code(num[i])]
		if parent == nil {
			return
		}
	}
	parent.children[Code(num[last])] = nil
}

// Get resolves num through the rule with the longest matching prefix. A
// number no rule matches resolves to itself.
func (pf *PhoneForward) Get(num string) *Numbers {
	if pf == nil {
		return nil
	}
	if !ValidNumber(num) {
		return absentNumbers()
	}
	return newNumbers(pf.resolve(num))
}

func (pf *PhoneForward) resolve(num string) string {
	target, depth := "", 0
	n := pf.root
	for i := 0; n != nil; i++ {
		if n.target != "" {
			target, depth = n.target, i
		}
		if i == len(num) {
			break
		}
		n = n.children[Code(num[i])]
	}
	if target == "" {
		return num
	}
	return target + num[depth:]
}

// walk visits n and every node below it in symbol order, handing fn the
// path leading to each node. The path is only valid during the call.
func (n *node) walk(path []byte, fn func(path []byte, n *node)) {
	fn(path, n)
	for code, child := range n.children {
		if child != nil {
			child.walk(append(path, Symbol(code)), fn)
		}
	}
}

// Rules lists every registered rule, ordered by prefix.
func (pf *PhoneForward) Rules() []Rule {
	rules := []Rule{}
	if pf == nil {
		return rules
	}
	pf.root.walk(nil, func(path []byte, n *node) {
		if n.target != "" {
			rules = append(rules, Rule{Prefix: string(path), Target: n.target})
		}
	})
	return rules
}

// Len is the number of registered rules.
func (pf *PhoneForward) Len() int {
	count := 0
	if pf == nil {
		return count
	}
	pf.root.walk(nil, func(_ []byte, n *node) {
		if n.target != "" {
			count++
		}
	})
	return count
}

// Nodes counts the trie nodes, root included. Nodes emptied by Remove of a
// longer prefix are not pruned and stay counted.
func (pf *PhoneForward) Nodes() int {
	count := 0
	if pf == nil {
		return count
	}
	pf.root.walk(nil, func(_ []byte, _ *node) {
		count++
	})
	return count
}
