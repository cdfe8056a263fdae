package manager

import (
	"github.com/sirupsen/logrus"
)

// Description is the observable view of one credential. It never carries
// key material.
type Description struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type KeyStats struct {
	Name    string  `json:"name"`
	Weight  float64 `json:"weight"`
	Share   float64 `json:"share"`
	Preview string  `json:"key_preview"`
}

type Stats struct {
	TotalKeys       int        `json:"total_keys"`
	TotalWeight     float64    `json:"total_weight"`
	Cursor          int        `json:"current_index"`
	DefaultStrategy string     `json:"default_strategy"`
	Keys            []KeyStats `json:"keys"`
}

// Describe returns (name, weight) for every credential in pool order.
// It never changes selection state.
func (m *Manager) Describe() []Description {
	out := make([]Description, m.pool.Len())
	for i := range out {
		r := m.pool.At(i)
		out[i] = Description{
			Name:   r.Name(i),
			Weight: r.Weight(),
		}
	}
	return out
}

// Stats is Describe plus the round-robin cursor, each key's share of the
// total weight and a truncated key preview.
func (m *Manager) Stats() Stats {
	st := Stats{
		TotalKeys:       m.pool.Len(),
		TotalWeight:     m.pool.TotalWeight(),
		Cursor:          m.roundRobin.Cursor(),
		DefaultStrategy: m.defaultStrategy.String(),
		Keys:            make([]KeyStats, m.pool.Len()),
	}
	for i := range st.Keys {
		r := m.pool.At(i)
		st.Keys[i] = KeyStats{
			Name:    r.Name(i),
			Weight:  r.Weight(),
			Share:   m.weighted.Probability(i),
			Preview: r.Preview(),
		}
	}
	return st
}

// LogDescription logs the pool at info level, one line per credential.
func (m *Manager) LogDescription(logger *logrus.Entry) {
	if logger == nil {
		logger = m.logger
	}
	logger.Infof("initialized credential manager with %d keys, total weight %g, default strategy %s",
		m.pool.Len(), m.pool.TotalWeight(), m.defaultStrategy)
	for _, d := range m.Describe() {
		logger.WithField("credential_name", d.Name).Infof("weight=%g", d.Weight)
	}
}
