/*
 * Copyright 2026 the zurich-pool-exporter authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package collector

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alakae/zurich-pool-exporter/pkg/logger"
)

// DefaultGracePeriod bounds how long the supervisor waits for collectors to
// stop cooperatively before abandoning them.
const DefaultGracePeriod = 5 * time.Second

// Supervisor runs a set of collectors as independent concurrent tasks and
// owns the coordinated shutdown. On shutdown it calls Stop on every
// collector, cancels their contexts, and waits up to the grace period;
// collectors still running afterwards are abandoned so the process never
// hangs on a stuck network call.
type Supervisor struct {
	collectors []Collector
	grace      time.Duration
	clock      Clock
	logger     zerolog.Logger
}

// NewSupervisor creates a supervisor for the given collectors. A zero grace
// period defaults to DefaultGracePeriod; a nil clock defaults to the real
// clock.
func NewSupervisor(collectors []Collector, grace time.Duration, clock Clock, log logger.Logger) *Supervisor {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	if clock == nil {
		clock = realClock{}
	}

	return &Supervisor{
		collectors: collectors,
		grace:      grace,
		clock:      clock,
		logger:     log.WithComponent("supervisor"),
	}
}

// Run starts all collectors and blocks until they finish naturally or ctx
// is cancelled. It always returns nil after a coordinated shutdown, even
// when stragglers had to be abandoned.
func (s *Supervisor) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})

	var wg sync.WaitGroup

	for _, c := range s.collectors {
		wg.Add(1)

		go func(c Collector) {
			defer wg.Done()

			if err := c.Run(runCtx); err != nil {
				s.logger.Error().Err(err).Msg("Collector exited with error")
			}
		}(c)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	s.logger.Info().Int("collectors", len(s.collectors)).Msg("Supervisor started")

	select {
	case <-done:
		s.logger.Info().Msg("All collectors finished")
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutdown requested, stopping collectors")

	for _, c := range s.collectors {
		c.Stop()
	}

	// Cancel the collector contexts to unblock in-flight reads and sleeps.
	cancel()

	select {
	case <-done:
		s.logger.Info().Msg("All collectors stopped")
	case <-s.clock.After(s.grace):
		s.logger.Warn().
			Dur("grace_period", s.grace).
			Msg("Collectors did not stop within grace period, abandoning")
	}

	return nil
}
