package selector

import (
	"errors"
	"fmt"
)

var ErrUnknownStrategy = errors.New("unknown selection strategy")

// Strategy is the selection algorithm requested for a call.
type Strategy uint8

const (
	// RoundRobin cycles through items in order and ignores weights.
	RoundRobin Strategy = iota + 1
	// Weighted samples an item with probability weight / total weight.
	Weighted
)

const (
	ROUND_ROBIN = "round_robin"
	WEIGHTED    = "weighted"

	// DefaultStrategy is used when the caller does not name one.
	DefaultStrategy = RoundRobin
)

// AllStrategies lists every supported strategy, in declaration order.
var AllStrategies = []Strategy{RoundRobin, Weighted}

// ParseStrategy maps a configured name to a Strategy. An empty name selects
// DefaultStrategy; anything else unrecognized is ErrUnknownStrategy.
func ParseStrategy(name string) (s Strategy, err error) {
	switch name {
	case "":
		return DefaultStrategy, nil
	case ROUND_ROBIN:
		return RoundRobin, nil
	case WEIGHTED:
		return Weighted, nil
	}
	err = fmt.Errorf("%w: '%s'", ErrUnknownStrategy, name)
	return
}

func (s Strategy) Valid() bool {
	return s == RoundRobin || s == Weighted
}

func (s Strategy) String() string {
	switch s {
	case RoundRobin:
		return ROUND_ROBIN
	case Weighted:
		return WEIGHTED
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText lets a Strategy be decoded straight from YAML or flags.
func (s *Strategy) UnmarshalText(text []byte) (err error) {
	*s, err = ParseStrategy(string(text))
	return
}
