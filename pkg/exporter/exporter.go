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

// Package exporter wires the resolver, metric sink, collectors, and
// supervisor into one runnable unit.
package exporter

import (
	"context"
	"time"

	"github.com/alakae/zurich-pool-exporter/pkg/collector"
	"github.com/alakae/zurich-pool-exporter/pkg/identity"
	"github.com/alakae/zurich-pool-exporter/pkg/logger"
	"github.com/alakae/zurich-pool-exporter/pkg/metrics"
)

// Exporter runs the metrics endpoint and the supervised collectors.
type Exporter struct {
	metrics    *metrics.PoolMetrics
	supervisor *collector.Supervisor
	logger     logger.Logger
}

// New builds an exporter from a validated configuration. Hardcoded
// temperatures are published here, before Run and before any network call.
func New(config *Config, log logger.Logger) *Exporter {
	resolver := identity.NewResolver(config.Pools)
	sink := metrics.NewPoolMetrics(config.Metrics, log)

	occupancy := collector.NewOccupancyCollector(
		config.Occupancy, resolver, sink, nil, nil, log)
	temperature := collector.NewTemperatureCollector(
		config.Temperature, config.Pools, resolver, sink, nil, log)

	supervisor := collector.NewSupervisor(
		[]collector.Collector{occupancy, temperature},
		time.Duration(config.ShutdownGracePeriod), nil, log)

	return &Exporter{
		metrics:    sink,
		supervisor: supervisor,
		logger:     log,
	}
}

// Run serves metrics and runs the collectors until ctx is cancelled or the
// metrics listener fails. A listener failure triggers the same coordinated
// collector shutdown as a termination signal.
func (e *Exporter) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- e.metrics.Serve(runCtx)
	}()

	supervisorErr := make(chan error, 1)

	go func() {
		supervisorErr <- e.supervisor.Run(runCtx)
	}()

	select {
	case err := <-serveErr:
		cancel()
		<-supervisorErr

		return err
	case err := <-supervisorErr:
		cancel()

		if serveResult := <-serveErr; serveResult != nil && err == nil {
			err = serveResult
		}

		return err
	}
}
