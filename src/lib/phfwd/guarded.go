package phfwd

import (
	"sync"

	"go.uber.org/zap"

	"gitlab.com/pnathan/phfwd/src/lib/log"
)

// Guarded serializes access to a PhoneForward: queries share a read lock,
// mutations take the write lock.
type Guarded struct {
	forward *PhoneForward
	Mutex   sync.RWMutex
}

func NewGuarded() *Guarded {
	return &Guarded{forward: New()}
}

func (g *Guarded) Add(num1, num2 string) error {
	g.Mutex.Lock()
	defer g.Mutex.Unlock()
	if err := g.forward.Add(num1, num2); err != nil {
		log.Debug("rejected rule", zap.String("prefix", num1), zap.String("target", num2), zap.Error(err))
		return err
	}
	log.Debug("added rule", zap.String("prefix", num1), zap.String("target", num2))
	return nil
}

func (g *Guarded) Remove(num string) {
	g.Mutex.Lock()
	defer g.Mutex.Unlock()
	g.forward.Remove(num)
	log.Debug("removed rules", zap.String("prefix", num))
}

// SwapIn replaces the whole rule set with the one held by pf. pf must not
// be used by the caller afterwards.
func (g *Guarded) SwapIn(pf *PhoneForward) {
	g.Mutex.Lock()
	defer g.Mutex.Unlock()
	g.forward = pf
}

func (g *Guarded) Get(num string) *Numbers {
	g.Mutex.RLock()
	defer g.Mutex.RUnlock()
	return g.forward.Get(num)
}

func (g *Guarded) Reverse(num string) *Numbers {
	g.Mutex.RLock()
	defer g.Mutex.RUnlock()
	return g.forward.Reverse(num)
}

func (g *Guarded) GetReverse(num string) *Numbers {
	g.Mutex.RLock()
	defer g.Mutex.RUnlock()
	return g.forward.GetReverse(num)
}

func (g *Guarded) Rules() []Rule {
	g.Mutex.RLock()
	defer g.Mutex.RUnlock()
	return g.forward.Rules()
}

// Counts returns the rule and node counts under one read lock.
func (g *Guarded) Counts() (rules int, nodes int) {
	g.Mutex.RLock()
	defer g.Mutex.RUnlock()
	return g.forward.Len(), g.forward.Nodes()
}
