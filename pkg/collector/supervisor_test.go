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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alakae/zurich-pool-exporter/pkg/logger"
)

func TestSupervisorStopsCollectorsOnContextCancel(t *testing.T) {
	first := newFakeCollector(false)
	second := newFakeCollector(false)
	s := NewSupervisor([]Collector{first, second}, time.Second, nil, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())

	runReturned := make(chan error, 1)

	go func() {
		runReturned <- s.Run(ctx)
	}()

	// Let the collectors start before requesting shutdown.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-runReturned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not return after cancellation")
	}

	assert.True(t, first.stopped())
	assert.True(t, second.stopped())

	select {
	case <-first.returned:
	case <-time.After(time.Second):
		t.Fatal("first collector never finished")
	}

	select {
	case <-second.returned:
	case <-time.After(time.Second):
		t.Fatal("second collector never finished")
	}
}

func TestSupervisorReturnsWhenCollectorsFinishNaturally(t *testing.T) {
	c := newFakeCollector(false)
	s := NewSupervisor([]Collector{c}, time.Second, nil, logger.NewTestLogger())

	runReturned := make(chan error, 1)

	go func() {
		runReturned <- s.Run(context.Background())
	}()

	time.Sleep(10 * time.Millisecond)
	c.Stop()

	select {
	case err := <-runReturned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not return after its collectors finished")
	}
}

func TestSupervisorAbandonsStuckCollectors(t *testing.T) {
	healthy := newFakeCollector(false)
	stuck := newFakeCollector(true)
	s := NewSupervisor([]Collector{healthy, stuck}, 50*time.Millisecond, nil, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())

	runReturned := make(chan error, 1)

	go func() {
		runReturned <- s.Run(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	start := time.Now()

	select {
	case err := <-runReturned:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not abandon the stuck collector")
	}

	// Bounded by the grace period, not by the stuck collector.
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.True(t, stuck.stopped())
}

func TestSupervisorDefaults(t *testing.T) {
	s := NewSupervisor(nil, 0, nil, logger.NewTestLogger())

	assert.Equal(t, DefaultGracePeriod, s.grace)
	assert.NotNil(t, s.clock)
}
