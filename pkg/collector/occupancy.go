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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/alakae/zurich-pool-exporter/pkg/identity"
	"github.com/alakae/zurich-pool-exporter/pkg/logger"
	"github.com/alakae/zurich-pool-exporter/pkg/metrics"
	"github.com/alakae/zurich-pool-exporter/pkg/models"
)

// requestAllToken asks the feed for a full snapshot after connecting.
const requestAllToken = "all"

var errMissingField = fmt.Errorf("missing required field")

// OccupancyCollector maintains a persistent streaming connection to the
// occupancy feed and forwards each parsed record to the resolver and sink.
// Failed connections and closed streams are retried with a fixed delay; the
// upstream feed is low-volume and operator-controlled, so a fixed small
// delay avoids both hot-looping and slow recovery.
type OccupancyCollector struct {
	config   OccupancyConfig
	resolver *identity.Resolver
	sink     metrics.Sink
	dialer   Dialer
	clock    Clock
	logger   zerolog.Logger

	active atomic.Bool
	state  atomic.Int32
}

// NewOccupancyCollector creates a new occupancy collector. A nil dialer
// defaults to the gorilla/websocket transport; a nil clock defaults to the
// real clock.
func NewOccupancyCollector(
	config OccupancyConfig,
	resolver *identity.Resolver,
	sink metrics.Sink,
	dialer Dialer,
	clock Clock,
	log logger.Logger,
) *OccupancyCollector {
	if dialer == nil {
		dialer = newWSDialer(time.Duration(config.ConnectTimeout))
	}

	if clock == nil {
		clock = realClock{}
	}

	return &OccupancyCollector{
		config:   config,
		resolver: resolver,
		sink:     sink,
		dialer:   dialer,
		clock:    clock,
		logger:   log.WithComponent("occupancy"),
	}
}

// Run connects to the occupancy feed and consumes frames until Stop is
// called or ctx is cancelled. All transport and payload errors are recovered
// internally; Run never propagates them.
func (c *OccupancyCollector) Run(ctx context.Context) error {
	c.active.Store(true)
	c.logger.Info().Str("url", c.config.URL).Msg("Occupancy collector started")

	for c.active.Load() && ctx.Err() == nil {
		conn := c.connect(ctx)
		if conn == nil {
			break
		}

		c.stream(ctx, conn)

		if c.active.Load() && ctx.Err() == nil {
			c.setState(StateBackoff)
			c.logger.Info().
				Dur("retry_interval", time.Duration(c.config.RetryInterval)).
				Msg("Reconnecting after stream end")
			c.sleep(ctx, time.Duration(c.config.RetryInterval))
		}
	}

	c.setState(StateStopped)
	c.logger.Info().Msg("Occupancy collector stopped")

	return nil
}

// Stop deactivates the collector. It only flips a flag; the run loop
// observes it at its next decision point, so shutdown latency is bounded by
// one in-flight message or connect attempt.
func (c *OccupancyCollector) Stop() {
	if c.active.CompareAndSwap(true, false) {
		c.setState(StateStopping)
		c.logger.Info().Msg("Stopping occupancy collector")
	}
}

// State returns the collector's current run loop state.
func (c *OccupancyCollector) State() State {
	return State(c.state.Load())
}

func (c *OccupancyCollector) setState(s State) {
	c.state.Store(int32(s))
}

// connect attempts to establish the streaming connection, retrying with the
// configured fixed delay while the collector is active. It returns nil once
// the collector is deactivated or ctx is cancelled.
func (c *OccupancyCollector) connect(ctx context.Context) Conn {
	for c.active.Load() && ctx.Err() == nil {
		c.setState(StateConnecting)
		c.logger.Info().Str("url", c.config.URL).Msg("Connecting to occupancy feed")

		conn, err := c.dialer.DialContext(ctx, c.config.URL)
		if err == nil {
			c.logger.Info().Msg("Connected to occupancy feed")
			return conn
		}

		if ctx.Err() != nil {
			break
		}

		c.logger.Error().Err(err).Msg("Failed to connect to occupancy feed")
		c.setState(StateBackoff)
		c.logger.Info().
			Dur("retry_interval", time.Duration(c.config.RetryInterval)).
			Msg("Retrying connection")
		c.sleep(ctx, time.Duration(c.config.RetryInterval))
	}

	return nil
}

// stream requests a full snapshot and consumes frames until the connection
// terminates or ctx is cancelled. The connection is always closed on return.
func (c *OccupancyCollector) stream(ctx context.Context, conn Conn) {
	defer func() { _ = conn.Close() }()

	c.setState(StateStreaming)

	// Close the connection when ctx is cancelled so the blocking read returns.
	watchDone := make(chan struct{})
	defer close(watchDone)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-watchDone:
		}
	}()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(requestAllToken)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to request full snapshot")
		return
	}

	stopKeepalive := c.startKeepalive(conn)
	defer stopKeepalive()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.active.Load() && ctx.Err() == nil {
				c.logger.Warn().Err(err).Msg("Occupancy stream closed")
			}

			return
		}

		c.logger.Debug().Int("length", len(message)).Msg("Received occupancy frame")
		c.processMessage(message)
	}
}

// startKeepalive sends protocol pings at the configured interval and
// enforces the pong deadline through the read deadline. The returned func
// stops the ping loop.
func (c *OccupancyCollector) startKeepalive(conn Conn) func() {
	interval := time.Duration(c.config.PingInterval)
	timeout := time.Duration(c.config.PingTimeout)

	if interval <= 0 {
		return func() {}
	}

	deadline := func() time.Time { return c.clock.Now().Add(interval + timeout) }

	_ = conn.SetReadDeadline(deadline())
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(deadline())
	})

	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, c.clock.Now().Add(timeout)); err != nil {
					return
				}
			}
		}
	}()

	return func() { close(done) }
}

// processMessage parses one frame. A frame that is not a JSON array is
// dropped whole; a malformed element is dropped individually and never
// prevents sibling entries from being processed.
func (c *OccupancyCollector) processMessage(message []byte) {
	var elements []json.RawMessage
	if err := json.Unmarshal(message, &elements); err != nil {
		c.logger.Warn().Err(err).Msg("Dropping occupancy frame that is not a JSON array")
		return
	}

	for _, element := range elements {
		var entry occupancyEntry
		if err := json.Unmarshal(element, &entry); err != nil {
			c.logger.Warn().Err(err).Msg("Dropping malformed occupancy entry")
			continue
		}

		record, err := entry.toRecord()
		if err != nil {
			c.logger.Warn().Err(err).Msg("Dropping incomplete occupancy entry")
			continue
		}

		uid, ok := c.resolver.ResolveOccupancy(record.UID)
		if !ok {
			c.logger.Debug().Str("uid", record.UID).Msg("Ignoring occupancy entry for untracked pool")
			continue
		}

		c.sink.RecordOccupancy(uid, record.Name, record.CurrentFill, record.FreeSpace, record.MaxSpace)
	}
}

// sleep waits d or until ctx is cancelled, whichever comes first.
func (c *OccupancyCollector) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-c.clock.After(d):
	}
}

// flexString accepts JSON strings and numbers; the feed is inconsistent
// about the uid type.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*f = flexString(n.String())

	return nil
}

// flexInt accepts JSON numbers and numeric strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}

	*f = flexInt(v)

	return nil
}

// occupancyEntry is the wire shape of one element of an occupancy frame.
// Pointer fields distinguish missing keys from zero values.
type occupancyEntry struct {
	UID         *flexString `json:"uid"`
	Name        *string     `json:"name"`
	FreeSpace   *flexInt    `json:"freespace"`
	MaxSpace    *flexInt    `json:"maxspace"`
	CurrentFill *flexInt    `json:"currentfill"`
}

// toRecord validates the required keys and builds a normalized record.
func (e *occupancyEntry) toRecord() (models.OccupancyData, error) {
	if e.UID == nil || e.Name == nil || e.FreeSpace == nil || e.MaxSpace == nil || e.CurrentFill == nil {
		return models.OccupancyData{}, errMissingField
	}

	return models.OccupancyData{
		UID:         string(*e.UID),
		Name:        *e.Name,
		FreeSpace:   int(*e.FreeSpace),
		MaxSpace:    int(*e.MaxSpace),
		CurrentFill: int(*e.CurrentFill),
	}, nil
}
