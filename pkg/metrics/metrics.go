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

// Package metrics exposes the pool gauges as a Prometheus pull endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/alakae/zurich-pool-exporter/pkg/logger"
)

// Config describes the metrics exposition endpoint.
type Config struct {
	Port      int    `json:"port"`
	Path      string `json:"path"`
	Namespace string `json:"namespace"`
}

// Sink receives gauge updates from the collectors. Implementations must be
// safe for concurrent writers; the two collectors update independently with
// no ordering guarantee between them.
type Sink interface {
	RecordOccupancy(uid, name string, currentFill, freeSpace, maxSpace int)
	RecordTemperature(uid, name string, celsius float64)
}

// PoolMetrics holds the five pool gauges, all labeled (pool_uid, pool_name)
// and prefixed with the configured namespace. It uses its own registry so
// multiple instances can coexist in tests.
type PoolMetrics struct {
	config   Config
	registry *prometheus.Registry

	currentFill         *prometheus.GaugeVec
	freeSpace           *prometheus.GaugeVec
	maxSpace            *prometheus.GaugeVec
	occupancyPercentage *prometheus.GaugeVec
	waterTemperature    *prometheus.GaugeVec

	logger zerolog.Logger
}

// NewPoolMetrics creates the gauges and registers them on a fresh registry.
func NewPoolMetrics(config Config, log logger.Logger) *PoolMetrics {
	labels := []string{"pool_uid", "pool_name"}

	m := &PoolMetrics{
		config:   config,
		registry: prometheus.NewRegistry(),
		currentFill: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "current_fill",
			Help:      "Current number of visitors at the pool",
		}, labels),
		freeSpace: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "free_space",
			Help:      "Available capacity remaining at the pool",
		}, labels),
		maxSpace: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "max_space",
			Help:      "Maximum capacity of the pool",
		}, labels),
		occupancyPercentage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "occupancy_percentage",
			Help:      "Percentage of pool capacity currently in use",
		}, labels),
		waterTemperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "water_temperature",
			Help:      "Water temperature of the pool in degrees Celsius",
		}, labels),
		logger: log.WithComponent("metrics"),
	}

	m.registry.MustRegister(
		m.currentFill,
		m.freeSpace,
		m.maxSpace,
		m.occupancyPercentage,
		m.waterTemperature,
	)

	return m
}

// RecordOccupancy implements Sink. The occupancy percentage is derived here
// so both collectors share a single metric definition; it is 0 when the
// maximum capacity is 0.
func (m *PoolMetrics) RecordOccupancy(uid, name string, currentFill, freeSpace, maxSpace int) {
	occupancy := 0.0
	if maxSpace > 0 {
		occupancy = float64(currentFill) / float64(maxSpace) * 100
	}

	m.currentFill.WithLabelValues(uid, name).Set(float64(currentFill))
	m.freeSpace.WithLabelValues(uid, name).Set(float64(freeSpace))
	m.maxSpace.WithLabelValues(uid, name).Set(float64(maxSpace))
	m.occupancyPercentage.WithLabelValues(uid, name).Set(occupancy)

	m.logger.Debug().
		Str("pool_uid", uid).
		Str("pool_name", name).
		Int("current_fill", currentFill).
		Int("free_space", freeSpace).
		Int("max_space", maxSpace).
		Float64("occupancy_percentage", occupancy).
		Msg("Updated occupancy metrics")
}

// RecordTemperature implements Sink.
func (m *PoolMetrics) RecordTemperature(uid, name string, celsius float64) {
	m.waterTemperature.WithLabelValues(uid, name).Set(celsius)

	m.logger.Debug().
		Str("pool_uid", uid).
		Str("pool_name", name).
		Float64("temperature", celsius).
		Msg("Updated temperature metric")
}
