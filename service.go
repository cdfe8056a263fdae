package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/4O4-Not-F0und/key-relay/credential"
	"github.com/4O4-Not-F0und/key-relay/manager"
	"github.com/4O4-Not-F0und/key-relay/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const (
	reloadDebounce = 100 * time.Millisecond
)

// Service holds the active selection manager. A reload builds a complete new
// manager and swaps it in; the old one keeps serving if the new config is bad.
type Service struct {
	configFile   string
	metricListen string
	current      atomic.Pointer[manager.Manager]
	reloadMu     *sync.Mutex
	logger       *logrus.Entry
}

func newService(configFile string, appConfig *Config) (s *Service, err error) {
	m, err := newManager(appConfig.Credentials)
	if err != nil {
		return
	}

	s = &Service{
		configFile:   configFile,
		metricListen: appConfig.Metric.Listen,
		reloadMu:     &sync.Mutex{},
		logger:       logrus.WithField("config_file", configFile),
	}
	s.swap(m)
	return
}

func (s *Service) swap(m *manager.Manager) {
	s.current.Store(m)
	m.LogDescription(nil)
	metrics.PublishPool(m)
}

// Manager returns the manager currently serving selections.
func (s *Service) Manager() *manager.Manager {
	return s.current.Load()
}

// Select picks a credential for one request. An empty strategy uses the
// configured default.
func (s *Service) Select(strategy string) (credential.Record, error) {
	return s.Manager().SelectByName(strategy)
}

func (s *Service) Describe() []manager.Description {
	return s.Manager().Describe()
}

// Reload re-reads the config file and replaces the manager as a whole.
func (s *Service) Reload() (err error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	defer func() {
		if err != nil {
			metrics.MetricConfigReloadsTotal.WithLabelValues(metrics.ReloadResultFailed).Inc()
			return
		}
		metrics.MetricConfigReloadsTotal.WithLabelValues(metrics.ReloadResultSuccess).Inc()
	}()

	appConfig, err := loadConfig(s.configFile)
	if err != nil {
		return fmt.Errorf("error reloading config: %w", err)
	}

	m, err := newManager(appConfig.Credentials)
	if err != nil {
		return
	}

	err = reloadLogConfig(appConfig.LogLevel)
	if err != nil {
		return fmt.Errorf("error parsing new log level '%s': %w", appConfig.LogLevel, err)
	}

	if appConfig.Metric.Listen != s.metricListen {
		s.logger.Warn("metric listen address changed, please restart to apply")
	}

	s.swap(m)
	s.logger.Info("config reloaded")
	return
}

// Watch reloads the config whenever its file is written or replaced.
// The directory is watched too, to catch editors that save by rename.
func (s *Service) Watch(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher failed: %w", err)
	}

	target := filepath.Clean(s.configFile)
	err = watcher.Add(filepath.Dir(target))
	if err != nil {
		watcher.Close()
		return fmt.Errorf("watch '%s' failed: %w", filepath.Dir(target), err)
	}
	s.logger.Debug("config watcher started")

	go func() {
		defer watcher.Close()

		var debounceTimer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target ||
					!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				s.logger.Tracef("config file event: %s", event.Op)
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(reloadDebounce, func() {
					if err := s.Reload(); err != nil {
						s.logger.Error(err)
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warnf("config watcher error: %v", err)

			case <-ctx.Done():
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()
	return
}

// handleSignals reloads on SIGHUP until ctx is done.
func (s *Service) handleSignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		select {
		case sig := <-sigChan:
			s.logger.Infof("received %s, attempting to reload config", sig.String())
			if err := s.Reload(); err != nil {
				s.logger.Error(err)
			}
		case <-ctx.Done():
			return
		}
	}
}
