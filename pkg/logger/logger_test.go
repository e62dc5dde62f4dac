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

package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithNilConfigUsesDefaults(t *testing.T) {
	log, err := New(nil)

	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})

	assert.Error(t, err)
}

func TestNewDebugOverridesLevel(t *testing.T) {
	log, err := New(&Config{Level: "warn", Debug: true})

	require.NoError(t, err)

	impl, ok := log.(*LoggerImpl)
	require.True(t, ok)
	assert.Equal(t, zerolog.DebugLevel, impl.logger.GetLevel())
}

func TestNewComponentLogger(t *testing.T) {
	log, err := NewComponentLogger("collector", &Config{Level: "info"})

	require.NoError(t, err)
	require.NotNil(t, log)

	// The component field must survive derived loggers.
	derived := log.WithComponent("occupancy")
	assert.Equal(t, zerolog.InfoLevel, derived.GetLevel())
}

func TestSetDebugTogglesLevel(t *testing.T) {
	log, err := New(&Config{Level: "info"})
	require.NoError(t, err)

	impl, ok := log.(*LoggerImpl)
	require.True(t, ok)

	impl.SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, impl.logger.GetLevel())

	impl.SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, impl.logger.GetLevel())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "stdout", cfg.Output)
	assert.False(t, cfg.Debug)
}

func TestNewTestLoggerDiscardsOutput(t *testing.T) {
	log := NewTestLogger()

	// Must not panic or write anywhere.
	log.Info().Str("key", "value").Msg("discarded")
	log.Error().Msg("discarded")
}
