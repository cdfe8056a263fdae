package selector

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// WeightedSelector samples items with probability proportional to their
// weight. [0, total) is split into contiguous intervals, one per item in
// list order, each as long as that item's weight; a uniform draw lands in
// exactly one of them.
//
// The items and total weight never change after construction, so Select
// needs no locking as long as the Source is itself concurrency safe.
type WeightedSelector[T Item] struct {
	items       []T
	totalWeight float64
	source      Source
	logger      *logrus.Entry
}

// NewWeightedSelector creates a WeightedSelector over a copy of items.
// A nil source falls back to GlobalSource.
func NewWeightedSelector[T Item](items []T, source Source) (*WeightedSelector[T], error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if source == nil {
		source = GlobalSource()
	}

	s := &WeightedSelector[T]{
		items:  make([]T, len(items)),
		source: source,
		logger: logrus.WithField("selector", WEIGHTED),
	}
	copy(s.items, items)

	for _, item := range s.items {
		if !validWeight(item.GetWeight()) {
			return nil, fmt.Errorf("%w: '%s' has weight %v", ErrNonPositiveWeight, item.GetName(), item.GetWeight())
		}
		s.totalWeight += item.GetWeight()
	}
	if math.IsInf(s.totalWeight, 1) {
		return nil, ErrWeightOverflow
	}
	return s, nil
}

// validWeight also rejects NaN, for which w > 0 is false.
func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}

// Select draws from the selector's own Source.
func (s *WeightedSelector[T]) Select() T {
	_, item := s.SelectIndex()
	return item
}

// SelectIndex is Select, also reporting the position of the returned item.
func (s *WeightedSelector[T]) SelectIndex() (int, T) {
	return s.SelectIndexWith(s.source)
}

// SelectWith draws from the supplied Source instead of the selector's own.
func (s *WeightedSelector[T]) SelectWith(src Source) T {
	_, item := s.SelectIndexWith(src)
	return item
}

// SelectIndexWith is SelectWith, also reporting the position of the returned item.
func (s *WeightedSelector[T]) SelectIndexWith(src Source) (int, T) {
	r := src.Float64() * s.totalWeight

	var cumulative float64
	for i, item := range s.items {
		cumulative += item.GetWeight()
		if cumulative > r {
			s.logger.Tracef("draw %.6f/%.6f landed on %d", r, s.totalWeight, i)
			return i, item
		}
	}

	// Rounding can leave the running sum a hair short of the cached total.
	last := len(s.items) - 1
	s.logger.Tracef("draw %.6f/%.6f overshot, using last item", r, s.totalWeight)
	return last, s.items[last]
}

// Probability returns the chance of item i being selected.
func (s *WeightedSelector[T]) Probability(i int) float64 {
	return s.items[i].GetWeight() / s.totalWeight
}

func (s *WeightedSelector[T]) Len() int {
	return len(s.items)
}

func (s *WeightedSelector[T]) TotalWeight() float64 {
	return s.totalWeight
}

func (s *WeightedSelector[T]) GetType() Strategy {
	return Weighted
}
