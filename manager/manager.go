package manager

import (
	"fmt"

	"github.com/4O4-Not-F0und/key-relay/credential"
	"github.com/4O4-Not-F0und/key-relay/selector"
	"github.com/sirupsen/logrus"
)

// entry adapts a credential.Record to selector.Item, carrying the display
// name so unlabeled credentials still show up as key-N.
type entry struct {
	credential.Record
	name string
}

func (e entry) GetName() string {
	return e.name
}

func (e entry) GetWeight() float64 {
	return e.Weight()
}


// Manager chooses which credential backs each request. It owns one immutable
// Pool and one round-robin cursor, and is safe for concurrent use.
// Reconfiguration replaces the whole Manager.
type Manager struct {
	pool            *credential.Pool
	roundRobin      *selector.RoundRobinSelector[entry]
	weighted        *selector.WeightedSelector[entry]
	source          selector.Source
	observers       MultiObserver
	defaultStrategy selector.Strategy
	logger          *logrus.Entry
}

type Option func(*Manager)

// WithSource sets the random source of the weighted strategy.
// It must be safe for concurrent use.
func WithSource(src selector.Source) Option {
	return func(m *Manager) {
		m.source = src
	}
}

// WithObserver adds an observer notified after every selection.
// It can be given more than once.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
}

// WithDefaultStrategy sets the strategy SelectByName uses for an empty name.
// Invalid values are ignored.
func WithDefaultStrategy(s selector.Strategy) Option {
	return func(m *Manager) {
		if s.Valid() {
			m.defaultStrategy = s
		}
	}
}

// New builds a Manager around an already validated pool.
func New(pool *credential.Pool, opts ...Option) (m *Manager, err error) {
	if pool == nil || pool.Len() == 0 {
		err = credential.ErrEmptyPool
		return
	}

	m = &Manager{
		pool:            pool,
		defaultStrategy: selector.DefaultStrategy,
		logger:          logrus.WithField("component", "credential_manager"),
	}
	for _, opt := range opts {
		opt(m)
	}

	entries := make([]entry, pool.Len())
	for i := range entries {
		r := pool.At(i)
		entries[i] = entry{Record: r, name: r.Name(i)}
	}

	m.roundRobin, err = selector.NewRoundRobinSelector(entries)
	if err != nil {
		return nil, err
	}
	m.weighted, err = selector.NewWeightedSelector(entries, m.source)
	if err != nil {
		return nil, err
	}
	return
}

// NewFromConfig normalizes the configuration surface into a pool and builds
// a Manager around it. Validation errors are returned untouched.
func NewFromConfig(legacy string, entries []credential.EntryConfig, opts ...Option) (*Manager, error) {
	pool, err := credential.FromConfig(legacy, entries)
	if err != nil {
		return nil, err
	}
	return New(pool, opts...)
}

// SelectRoundRobin returns the credential under the cursor and advances it.
func (m *Manager) SelectRoundRobin() credential.Record {
	i, e := m.roundRobin.SelectIndex()
	m.notify(i, e, selector.RoundRobin)
	return e.Record
}

// SelectWeighted samples a credential with probability weight / total weight.
func (m *Manager) SelectWeighted() credential.Record {
	i, e := m.weighted.SelectIndex()
	m.notify(i, e, selector.Weighted)
	return e.Record
}

// Select dispatches to the given strategy. An unknown value fails with
// selector.ErrUnknownStrategy without touching the round-robin cursor.
func (m *Manager) Select(s selector.Strategy) (r credential.Record, err error) {
	switch s {
	case selector.RoundRobin:
		return m.SelectRoundRobin(), nil
	case selector.Weighted:
		return m.SelectWeighted(), nil
	}
	err = fmt.Errorf("%w: %s", selector.ErrUnknownStrategy, s)
	return
}

// SelectByName parses a configured strategy name and dispatches to it.
// An empty name uses the manager's default strategy.
func (m *Manager) SelectByName(name string) (credential.Record, error) {
	if name == "" {
		return m.Select(m.defaultStrategy)
	}
	s, err := selector.ParseStrategy(name)
	if err != nil {
		return credential.Record{}, err
	}
	return m.Select(s)
}

func (m *Manager) notify(i int, e entry, s selector.Strategy) {
	m.observers.OnSelect(Event{
		Index:    i,
		Name:     e.name,
		Strategy: s,
		Weight:   e.Weight(),
	})
}

func (m *Manager) DefaultStrategy() selector.Strategy {
	return m.defaultStrategy
}

func (m *Manager) Len() int {
	return m.pool.Len()
}

func (m *Manager) TotalWeight() float64 {
	return m.pool.TotalWeight()
}

// Records returns a copy of the pool in order.
func (m *Manager) Records() []credential.Record {
	return m.pool.Records()
}

// Lookup finds a credential by label without affecting selection state.
func (m *Manager) Lookup(label string) (credential.Record, bool) {
	return m.pool.Lookup(label)
}
