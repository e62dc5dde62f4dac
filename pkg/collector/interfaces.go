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

// Package collector implements the occupancy and temperature collectors and
// their concurrent supervision.
package collector

import (
	"context"
	"time"
)

// Collector is a long-running data collector with cooperative shutdown.
// Run blocks until the collector is stopped or ctx is cancelled. Stop is
// idempotent, non-blocking, and safe to call concurrently with Run; the run
// loop observes it at its next decision point.
type Collector interface {
	Run(ctx context.Context) error
	Stop()
	State() State
}

// Clock abstracts time-related operations so tests can control sleeps.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// Conn is the subset of a streaming connection the occupancy collector uses.
// *websocket.Conn satisfies it directly.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Dialer establishes streaming connections. The production implementation
// wraps gorilla/websocket; tests substitute scripted fakes.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}
