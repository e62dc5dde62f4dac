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
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/alakae/zurich-pool-exporter/pkg/identity"
	"github.com/alakae/zurich-pool-exporter/pkg/logger"
	"github.com/alakae/zurich-pool-exporter/pkg/metrics"
	"github.com/alakae/zurich-pool-exporter/pkg/models"
)

// statusUnknown is attached to entries whose open/closed text is absent.
const statusUnknown = "Unknown"

var errUnexpectedStatus = errors.New("unexpected response status")

// TemperatureCollector periodically fetches the temperature document feed
// and forwards each parsed record to the resolver and sink. At construction
// it publishes the configured hardcoded temperatures, so pools without live
// feed coverage expose a value before the first poll cycle.
type TemperatureCollector struct {
	config   TemperatureConfig
	pools    []models.PoolConfig
	resolver *identity.Resolver
	sink     metrics.Sink
	client   *http.Client
	clock    Clock
	logger   zerolog.Logger

	active atomic.Bool
	state  atomic.Int32
}

// NewTemperatureCollector creates a new temperature collector and publishes
// the hardcoded temperatures. A nil clock defaults to the real clock.
func NewTemperatureCollector(
	config TemperatureConfig,
	pools []models.PoolConfig,
	resolver *identity.Resolver,
	sink metrics.Sink,
	clock Clock,
	log logger.Logger,
) *TemperatureCollector {
	if clock == nil {
		clock = realClock{}
	}

	c := &TemperatureCollector{
		config:   config,
		pools:    pools,
		resolver: resolver,
		sink:     sink,
		client:   &http.Client{Timeout: time.Duration(config.RequestTimeout)},
		clock:    clock,
		logger:   log.WithComponent("temperature"),
	}

	c.publishHardcoded()

	return c
}

// publishHardcoded pushes each configured hardcoded temperature through the
// normal record path before the run loop starts.
func (c *TemperatureCollector) publishHardcoded() {
	for _, pool := range c.pools {
		if pool.HardcodedTemperature == nil {
			continue
		}

		c.update(models.TemperatureData{
			PoolID:      pool.UID,
			Title:       pool.Name,
			Temperature: *pool.HardcodedTemperature,
			Status:      statusUnknown,
		})
	}
}

// Run performs fetch/parse/update cycles until Stop is called or ctx is
// cancelled. Any unexpected failure inside a cycle is logged and never
// terminates the loop. A cycle always completes once started; Stop is
// observed between cycles or during the sleep.
func (c *TemperatureCollector) Run(ctx context.Context) error {
	c.active.Store(true)
	c.logger.Info().
		Dur("poll_interval", time.Duration(c.config.PollInterval)).
		Msg("Temperature collector started")

	for c.active.Load() && ctx.Err() == nil {
		c.setState(StatePolling)

		if err := c.collect(ctx); err != nil {
			c.logger.Error().Err(err).Msg("Temperature collection cycle failed")
		}

		if !c.active.Load() || ctx.Err() != nil {
			break
		}

		c.setState(StateBackoff)
		c.logger.Debug().
			Dur("poll_interval", time.Duration(c.config.PollInterval)).
			Msg("Waiting until next temperature collection")
		c.sleep(ctx, time.Duration(c.config.PollInterval))
	}

	c.setState(StateStopped)
	c.logger.Info().Msg("Temperature collector stopped")

	return nil
}

// Stop deactivates the collector. It only flips a flag; a cycle in progress
// always completes before the run loop observes it.
func (c *TemperatureCollector) Stop() {
	if c.active.CompareAndSwap(true, false) {
		c.setState(StateStopping)
		c.logger.Info().Msg("Stopping temperature collector")
	}
}

// State returns the collector's current run loop state.
func (c *TemperatureCollector) State() State {
	return State(c.state.Load())
}

func (c *TemperatureCollector) setState(s State) {
	c.state.Store(int32(s))
}

// collect performs one fetch/parse/update cycle. Transport failures and
// non-success statuses skip the cycle; the next cycle is unaffected.
func (c *TemperatureCollector) collect(ctx context.Context) error {
	c.logger.Debug().Str("url", c.config.URL).Msg("Fetching temperature data")

	body, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	records := c.parseDocument(body)
	if len(records) == 0 {
		c.logger.Warn().Msg("No temperature data was parsed from the feed response")
		return nil
	}

	c.logger.Info().Int("pools", len(records)).Msg("Collected temperature data")

	for _, record := range records {
		c.update(record)
	}

	return nil
}

// fetch issues one bounded-timeout request against the document feed.
func (c *TemperatureCollector) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build temperature request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch temperature data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read temperature response: %w", err)
	}

	return body, nil
}

// bathEntry is the wire shape of one pool element in the document feed.
// Pointer fields distinguish absent elements from empty ones.
type bathEntry struct {
	PoolID       *string `xml:"poiid"`
	Title        *string `xml:"title"`
	Temperature  *string `xml:"temperatureWater"`
	Status       string  `xml:"openClosedTextPlain"`
	DateModified string  `xml:"dateModified"`
}

// parseDocument extracts the pool entries from the feed document. An entry
// missing its identifier, title, or temperature, or whose temperature fails
// numeric parse, is skipped without affecting its siblings. A parse failure
// of the whole document yields zero records.
func (c *TemperatureCollector) parseDocument(data []byte) []models.TemperatureData {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var records []models.TemperatureData

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to parse temperature document")
			return nil
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "bath" {
			continue
		}

		var entry bathEntry
		if err := decoder.DecodeElement(&entry, &start); err != nil {
			c.logger.Error().Err(err).Msg("Failed to parse temperature document")
			return nil
		}

		record, err := entry.toRecord()
		if err != nil {
			c.logger.Warn().Err(err).Msg("Skipping temperature entry")
			continue
		}

		records = append(records, record)
	}

	c.logger.Debug().Int("pools", len(records)).Msg("Parsed temperature document")

	return records
}

// toRecord validates the mandatory fields and builds a normalized record.
// The identifier is lowercased; the upstream feed uses inconsistent casing.
func (e *bathEntry) toRecord() (models.TemperatureData, error) {
	if e.PoolID == nil || strings.TrimSpace(*e.PoolID) == "" {
		return models.TemperatureData{}, fmt.Errorf("%w: poiid", errMissingField)
	}

	if e.Title == nil || strings.TrimSpace(*e.Title) == "" {
		return models.TemperatureData{}, fmt.Errorf("%w: title", errMissingField)
	}

	if e.Temperature == nil || strings.TrimSpace(*e.Temperature) == "" {
		return models.TemperatureData{}, fmt.Errorf("%w: temperatureWater", errMissingField)
	}

	temperature, err := strconv.ParseFloat(strings.TrimSpace(*e.Temperature), 64)
	if err != nil {
		return models.TemperatureData{}, fmt.Errorf("invalid temperature for pool %s: %w",
			strings.TrimSpace(*e.PoolID), err)
	}

	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = statusUnknown
	}

	return models.TemperatureData{
		PoolID:      strings.ToLower(strings.TrimSpace(*e.PoolID)),
		Title:       strings.TrimSpace(*e.Title),
		Temperature: temperature,
		Status:      status,
		LastUpdated: strings.TrimSpace(e.DateModified),
	}, nil
}

// update resolves one record and forwards it to the sink. Records for
// untracked pools are dropped silently; feeds may include pools this
// deployment does not track.
func (c *TemperatureCollector) update(record models.TemperatureData) {
	uid, ok := c.resolver.ResolveTemperature(record.PoolID, record.Title)
	if !ok {
		c.logger.Debug().
			Str("pool_id", record.PoolID).
			Str("title", record.Title).
			Msg("Ignoring temperature entry for untracked pool")

		return
	}

	c.sink.RecordTemperature(uid, record.Title, record.Temperature)
}

// sleep waits d or until ctx is cancelled, whichever comes first.
func (c *TemperatureCollector) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-c.clock.After(d):
	}
}
