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

package exporter

import (
	"fmt"
	"time"

	"github.com/alakae/zurich-pool-exporter/pkg/collector"
	"github.com/alakae/zurich-pool-exporter/pkg/logger"
	"github.com/alakae/zurich-pool-exporter/pkg/metrics"
	"github.com/alakae/zurich-pool-exporter/pkg/models"
)

var (
	errNoPoolsConfigured = fmt.Errorf("at least one pool must be configured")
	errPoolUIDRequired   = fmt.Errorf("pool uid is required")
	errPoolNameRequired  = fmt.Errorf("pool name is required")
)

const (
	defaultMetricsPort = 8000
	defaultMetricsPath = "/metrics"
	defaultNamespace   = "zurich_pools"
)

// Config is the exporter's top-level configuration.
type Config struct {
	Occupancy           collector.OccupancyConfig   `json:"occupancy"`
	Temperature         collector.TemperatureConfig `json:"temperature"`
	Metrics             metrics.Config              `json:"metrics"`
	Pools               []models.PoolConfig         `json:"pools"`
	Logging             *logger.Config              `json:"logging,omitempty"`
	ShutdownGracePeriod models.Duration             `json:"shutdown_grace_period,omitempty"`
}

// Validate implements config.Validator. Configuration errors are fatal at
// startup; the process exits non-zero before any collector starts.
func (c *Config) Validate() error {
	if err := c.Occupancy.Validate(); err != nil {
		return err
	}

	if err := c.Temperature.Validate(); err != nil {
		return err
	}

	if len(c.Pools) == 0 {
		return errNoPoolsConfigured
	}

	for i := range c.Pools {
		if c.Pools[i].UID == "" {
			return fmt.Errorf("%w (pool index %d)", errPoolUIDRequired, i)
		}

		if c.Pools[i].Name == "" {
			return fmt.Errorf("%w (pool %s)", errPoolNameRequired, c.Pools[i].UID)
		}
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = defaultMetricsPort
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = defaultNamespace
	}

	if time.Duration(c.ShutdownGracePeriod) == 0 {
		c.ShutdownGracePeriod = models.Duration(collector.DefaultGracePeriod)
	}

	return nil
}
