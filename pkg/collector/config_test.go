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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alakae/zurich-pool-exporter/pkg/models"
)

func TestOccupancyConfigValidate(t *testing.T) {
	cfg := OccupancyConfig{URL: "wss://example.invalid/api"}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultRetryInterval, time.Duration(cfg.RetryInterval))
	assert.Equal(t, defaultConnectTimeout, time.Duration(cfg.ConnectTimeout))
	assert.Equal(t, defaultPingInterval, time.Duration(cfg.PingInterval))
	assert.Equal(t, defaultPingTimeout, time.Duration(cfg.PingTimeout))
}

func TestOccupancyConfigValidateKeepsExplicitValues(t *testing.T) {
	cfg := OccupancyConfig{
		URL:           "wss://example.invalid/api",
		RetryInterval: models.Duration(time.Minute),
	}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, time.Minute, time.Duration(cfg.RetryInterval))
}

func TestOccupancyConfigValidateRequiresURL(t *testing.T) {
	cfg := OccupancyConfig{}

	assert.ErrorIs(t, cfg.Validate(), errOccupancyURLRequired)
}

func TestTemperatureConfigValidate(t *testing.T) {
	cfg := TemperatureConfig{URL: "https://example.invalid/feed"}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultPollInterval, time.Duration(cfg.PollInterval))
	assert.Equal(t, defaultRequestTimeout, time.Duration(cfg.RequestTimeout))
}

func TestTemperatureConfigValidateRequiresURL(t *testing.T) {
	cfg := TemperatureConfig{}

	assert.ErrorIs(t, cfg.Validate(), errTemperatureURLRequired)
}
