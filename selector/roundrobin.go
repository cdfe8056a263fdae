package selector

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// RoundRobinSelector cycles through a fixed list of items in insertion order.
// Weights are ignored. The read of the cursor and its advance happen under
// one lock, so concurrent callers always observe a contiguous sequence.
type RoundRobinSelector[T Item] struct {
	items  []T
	cursor int
	mu     *sync.Mutex
	logger *logrus.Entry
}

// NewRoundRobinSelector creates a RoundRobinSelector over a copy of items.
func NewRoundRobinSelector[T Item](items []T) (*RoundRobinSelector[T], error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	s := &RoundRobinSelector[T]{
		items:  make([]T, len(items)),
		mu:     &sync.Mutex{},
		logger: logrus.WithField("selector", ROUND_ROBIN),
	}
	copy(s.items, items)
	return s, nil
}

// Select returns the item under the cursor, then advances the cursor.
func (s *RoundRobinSelector[T]) Select() T {
	_, item := s.SelectIndex()
	return item
}

// SelectIndex is Select, also reporting the position of the returned item.
func (s *RoundRobinSelector[T]) SelectIndex() (int, T) {
	s.mu.Lock()
	i := s.cursor
	s.cursor = (s.cursor + 1) % len(s.items)
	s.mu.Unlock()

	s.logger.Tracef("cursor %d -> %d", i, (i+1)%len(s.items))
	return i, s.items[i]
}

// Cursor returns the index the next Select will return.
func (s *RoundRobinSelector[T]) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *RoundRobinSelector[T]) Len() int {
	return len(s.items)
}

func (s *RoundRobinSelector[T]) TotalWeight() float64 {
	var total float64
	for _, item := range s.items {
		total += item.GetWeight()
	}
	return total
}

func (s *RoundRobinSelector[T]) GetType() Strategy {
	return RoundRobin
}
