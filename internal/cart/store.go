package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"cafeteria/internal/domain"
)

type Line struct {
	Product domain.Product
	Qty     int
	Notes   string
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

type Snapshot struct {
	Lines      []Line
	TotalItems int
	Subtotal   decimal.Decimal
}

// Store holds one session's cart: at most one line per product id, kept in
// insertion order, quantities always >= 1. Listeners registered with
// Subscribe are called after every change, outside the lock.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	listeners map[int]func(Snapshot)
	nextID    int
}

func NewStore() *Store {
	return &Store{listeners: make(map[int]func(Snapshot))}
}

// AddItem bumps the quantity of an existing line and keeps its notes, or
// appends a new line with quantity 1.
func (s *Store) AddItem(p domain.Product, notes string) {
	s.mutate(func() bool {
		if i := s.indexOf(p.ID); i >= 0 {
			s.lines[i].Qty++
			return true
		}
		s.lines = append(s.lines, Line{Product: p, Qty: 1, Notes: notes})
		return true
	})
}

func (s *Store) RemoveItem(productID string) {
	s.mutate(func() bool {
		return s.remove(productID)
	})
}

// UpdateQty sets the quantity directly. qty <= 0 removes the line.
func (s *Store) UpdateQty(productID string, qty int) {
	s.mutate(func() bool {
		if qty <= 0 {
			return s.remove(productID)
		}
		i := s.indexOf(productID)
		if i < 0 || s.lines[i].Qty == qty {
			return false
		}
		s.lines[i].Qty = qty
		return true
	})
}

func (s *Store) Clear() {
	s.mutate(func() bool {
		if len(s.lines) == 0 {
			return false
		}
		s.lines = nil
		return true
	})
}

// RemoveOrdered takes the given lines out of the cart by subtracting their
// quantities. Lines added or raised after the snapshot was taken stay.
func (s *Store) RemoveOrdered(lines []Line) {
	s.mutate(func() bool {
		changed := false
		for _, ordered := range lines {
			i := s.indexOf(ordered.Product.ID)
			if i < 0 {
				continue
			}
			changed = true
			if s.lines[i].Qty <= ordered.Qty {
				s.remove(ordered.Product.ID)
				continue
			}
			s.lines[i].Qty -= ordered.Qty
		}
		return changed
	})
}

func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

func (s *Store) TotalItems() int {
	return s.Snapshot().TotalItems
}

func (s *Store) Subtotal() decimal.Decimal {
	return s.Snapshot().Subtotal
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn and returns the function that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) mutate(change func() bool) {
	s.mu.Lock()
	if !change() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *Store) remove(productID string) bool {
	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return true
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) copyLines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Lines: s.copyLines(), Subtotal: decimal.Zero}
	for _, l := range s.lines {
		snap.TotalItems += l.Qty
		snap.Subtotal = snap.Subtotal.Add(l.Subtotal())
	}
	return snap
}
