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
	"fmt"
	"time"

	"github.com/alakae/zurich-pool-exporter/pkg/models"
)

var (
	errOccupancyURLRequired   = fmt.Errorf("occupancy feed url is required")
	errTemperatureURLRequired = fmt.Errorf("temperature feed url is required")
)

const (
	defaultRetryInterval  = 10 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultPingInterval   = 20 * time.Second
	defaultPingTimeout    = 10 * time.Second

	defaultPollInterval   = 5 * time.Minute
	defaultRequestTimeout = 10 * time.Second
)

// OccupancyConfig configures the streaming occupancy collector.
type OccupancyConfig struct {
	URL            string          `json:"url"`
	RetryInterval  models.Duration `json:"retry_interval,omitempty"`
	ConnectTimeout models.Duration `json:"connect_timeout,omitempty"`
	PingInterval   models.Duration `json:"ping_interval,omitempty"`
	PingTimeout    models.Duration `json:"ping_timeout,omitempty"`
}

// Validate implements config.Validator and applies defaults to unset knobs.
// None of the timeout bounds defaults to "wait forever".
func (c *OccupancyConfig) Validate() error {
	if c.URL == "" {
		return errOccupancyURLRequired
	}

	if time.Duration(c.RetryInterval) == 0 {
		c.RetryInterval = models.Duration(defaultRetryInterval)
	}

	if time.Duration(c.ConnectTimeout) == 0 {
		c.ConnectTimeout = models.Duration(defaultConnectTimeout)
	}

	if time.Duration(c.PingInterval) == 0 {
		c.PingInterval = models.Duration(defaultPingInterval)
	}

	if time.Duration(c.PingTimeout) == 0 {
		c.PingTimeout = models.Duration(defaultPingTimeout)
	}

	return nil
}

// TemperatureConfig configures the polling temperature collector.
type TemperatureConfig struct {
	URL            string          `json:"url"`
	PollInterval   models.Duration `json:"poll_interval,omitempty"`
	RequestTimeout models.Duration `json:"request_timeout,omitempty"`
}

// Validate implements config.Validator and applies defaults to unset knobs.
func (c *TemperatureConfig) Validate() error {
	if c.URL == "" {
		return errTemperatureURLRequired
	}

	if time.Duration(c.PollInterval) == 0 {
		c.PollInterval = models.Duration(defaultPollInterval)
	}

	if time.Duration(c.RequestTimeout) == 0 {
		c.RequestTimeout = models.Duration(defaultRequestTimeout)
	}

	return nil
}
