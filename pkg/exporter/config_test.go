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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alakae/zurich-pool-exporter/pkg/collector"
	"github.com/alakae/zurich-pool-exporter/pkg/models"
)

func validConfig() *Config {
	return &Config{
		Occupancy:   collector.OccupancyConfig{URL: "wss://example.invalid/api"},
		Temperature: collector.TemperatureConfig{URL: "https://example.invalid/feed"},
		Pools: []models.PoolConfig{
			{UID: "ssd-1", Name: "Pool One"},
		},
	}
}

func TestConfigValidateAppliesDefaults(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultMetricsPort, cfg.Metrics.Port)
	assert.Equal(t, defaultMetricsPath, cfg.Metrics.Path)
	assert.Equal(t, defaultNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, collector.DefaultGracePeriod, time.Duration(cfg.ShutdownGracePeriod))
	assert.NotZero(t, time.Duration(cfg.Occupancy.RetryInterval))
	assert.NotZero(t, time.Duration(cfg.Temperature.PollInterval))
}

func TestConfigValidateKeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Metrics.Port = 9100
	cfg.Metrics.Path = "/prometheus"
	cfg.Metrics.Namespace = "pools"
	cfg.ShutdownGracePeriod = models.Duration(10 * time.Second)

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9100, cfg.Metrics.Port)
	assert.Equal(t, "/prometheus", cfg.Metrics.Path)
	assert.Equal(t, "pools", cfg.Metrics.Namespace)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.ShutdownGracePeriod))
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "missing occupancy url",
			mutate: func(c *Config) { c.Occupancy.URL = "" },
		},
		{
			name:   "missing temperature url",
			mutate: func(c *Config) { c.Temperature.URL = "" },
		},
		{
			name:    "no pools",
			mutate:  func(c *Config) { c.Pools = nil },
			wantErr: errNoPoolsConfigured,
		},
		{
			name:    "pool without uid",
			mutate:  func(c *Config) { c.Pools[0].UID = "" },
			wantErr: errPoolUIDRequired,
		},
		{
			name:    "pool without name",
			mutate:  func(c *Config) { c.Pools[0].Name = "" },
			wantErr: errPoolNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
