package manager

import (
	"github.com/4O4-Not-F0und/key-relay/selector"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Event describes one successful selection.
type Event struct {
	// Position of the credential in pool order
	Index    int
	Name     string
	Strategy selector.Strategy
	Weight   float64
}

// Observer is notified after every successful selection. Implementations
// must be safe for concurrent use, must not block and cannot influence
// which credential is returned.
type Observer interface {
	OnSelect(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) OnSelect(e Event) {
	f(e)
}

// MultiObserver fans an event out to several observers in order.
type MultiObserver []Observer

func (mo MultiObserver) OnSelect(e Event) {
	for _, o := range mo {
		if o != nil {
			o.OnSelect(e)
		}
	}
}

// LogObserver writes a debug line per selection. With a positive sample rate
// it writes at most that many lines per second and drops the rest.
type LogObserver struct {
	logger  *logrus.Entry
	limiter *rate.Limiter
}

func NewLogObserver(logger *logrus.Entry, samplePerSec float64) *LogObserver {
	if logger == nil {
		logger = logrus.WithField("component", "credential_manager")
	}
	lo := &LogObserver{logger: logger}
	if samplePerSec > 0 {
		lo.limiter = rate.NewLimiter(rate.Limit(samplePerSec), 1)
		logger.Debugf("selection log sampled at %.2f lines/s", samplePerSec)
	}
	return lo
}

func (lo *LogObserver) OnSelect(e Event) {
	if !lo.logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	if lo.limiter != nil && !lo.limiter.Allow() {
		return
	}

	entry := lo.logger.WithFields(logrus.Fields{
		"credential_name": e.Name,
		"strategy":        e.Strategy.String(),
	})
	if e.Strategy == selector.Weighted {
		entry.Debugf("selected credential (weight=%g)", e.Weight)
		return
	}
	entry.Debug("selected credential")
}
