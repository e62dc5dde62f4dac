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

// Package models holds the shared configuration and record types of the exporter.
package models

// PoolConfig describes one tracked pool. The UID is the canonical key for
// metric labels; AltUID, when set, is a second valid key some feeds use in
// place of the UID. HardcodedTemperature, when set, is published at startup
// for pools the live temperature feed does not cover.
type PoolConfig struct {
	UID                  string   `json:"uid"`
	Name                 string   `json:"name"`
	AltUID               string   `json:"alt_uid,omitempty"`
	HardcodedTemperature *float64 `json:"hardcoded_temperature,omitempty"`
}

// OccupancyData is one normalized occupancy reading from the streaming feed.
// Records are consumed immediately into metric updates and never retained.
type OccupancyData struct {
	UID         string
	Name        string
	FreeSpace   int
	MaxSpace    int
	CurrentFill int
}

// TemperatureData is one normalized temperature reading, either parsed from
// the document feed or synthesized from a hardcoded configuration value.
type TemperatureData struct {
	PoolID      string
	Title       string
	Temperature float64
	Status      string
	LastUpdated string
}
