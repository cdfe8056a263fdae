package selector

import "errors"

var (
	ErrNoItems           = errors.New("no items available in selector")
	ErrNonPositiveWeight = errors.New("item weight must be positive and finite")
	ErrWeightOverflow    = errors.New("total item weight is not finite")
)

type Item interface {
	// GetName returns the name of the item (for logging/debugging).
	GetName() string
	// GetWeight returns the configured weight of the item.
	// Selectors that ignore weights never call it.
	GetWeight() float64
}

// Selector picks one item per call. Implementations are safe for concurrent use
// and never block beyond a short critical section.
type Selector[T Item] interface {
	Select() T
	Len() int
	TotalWeight() float64
	GetType() Strategy
}
