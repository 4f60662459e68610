package cache

import (
	"container/list"

	"go.trai.ch/owlcache/internal/core/domain"
)

// Policy decides which entry to evict when the cache exceeds its bounds.
// Implementations maintain their own ordering and are not safe for
// concurrent use; the owning Cache serializes all calls.
type Policy interface {
	// Name returns the policy identifier ("lru" or "fifo").
	Name() string
	// OnInsert records a newly inserted key at the back of the order.
	OnInsert(key string)
	// OnAccess records a hit on key.
	OnAccess(key string)
	// OnRemove drops key from the order.
	OnRemove(key string)
	// Victim returns the next key to evict without removing it.
	// ok is false when the policy tracks no keys.
	Victim() (key string, ok bool)
	// Keys returns all tracked keys from oldest to newest.
	Keys() []string
}

// PolicyFor returns the policy implementation for p.
// Unrecognized values fall back to LRU.
func PolicyFor(p domain.EvictionPolicy) Policy {
	if p == domain.EvictFIFO {
		return &fifoPolicy{order: newOrderIndex()}
	}
	return &lruPolicy{order: newOrderIndex()}
}

// orderIndex is a doubly linked list of keys with O(1) lookup.
// Front is oldest, back is newest.
type orderIndex struct {
	ll    *list.List
	elems map[string]*list.Element
}

func newOrderIndex() orderIndex {
	return orderIndex{ll: list.New(), elems: make(map[string]*list.Element)}
}

func (o *orderIndex) push(key string) {
	if _, ok := o.elems[key]; ok {
		return
	}
	o.elems[key] = o.ll.PushBack(key)
}

func (o *orderIndex) remove(key string) {
	if el, ok := o.elems[key]; ok {
		o.ll.Remove(el)
		delete(o.elems, key)
	}
}

func (o *orderIndex) moveToBack(key string) {
	if el, ok := o.elems[key]; ok {
		o.ll.MoveToBack(el)
	}
}

func (o *orderIndex) front() (string, bool) {
	el := o.ll.Front()
	if el == nil {
		return "", false
	}
	return el.Value.(string), true
}

func (o *orderIndex) keys() []string {
	out := make([]string, 0, o.ll.Len())
	for el := o.ll.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(string))
	}
	return out
}

// lruPolicy evicts the least recently used key. Hits refresh recency.
type lruPolicy struct {
	order orderIndex
}

func (p *lruPolicy) Name() string { return string(domain.EvictLRU) }
func (p *lruPolicy) OnInsert(key string) { p.order.push(key) }
func (p *lruPolicy) OnAccess(key string) { p.order.moveToBack(key) }
func (p *lruPolicy) OnRemove(key string) { p.order.remove(key) }
func (p *lruPolicy) Victim() (string, bool) { return p.order.front() }
func (p *lruPolicy) Keys() []string { return p.order.keys() }

// fifoPolicy evicts the oldest inserted key. Hits do not affect order.
type fifoPolicy struct {
	order orderIndex
}

func (p *fifoPolicy) Name() string { return string(domain.EvictFIFO) }
func (p *fifoPolicy) OnInsert(key string) { p.order.push(key) }
func (p *fifoPolicy) OnAccess(string) {}
func (p *fifoPolicy) OnRemove(key string) { p.order.remove(key) }
func (p *fifoPolicy) Victim() (string, bool) { return p.order.front() }
func (p *fifoPolicy) Keys() []string { return p.order.keys() }
