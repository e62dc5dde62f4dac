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

// State describes where a collector currently is in its run loop. Each
// collector instance owns one state value, stored atomically so it can be
// observed concurrently with the run loop.
type State int32

const (
	// StateIdle is the initial state before Run is called.
	StateIdle State = iota
	// StateConnecting means a streaming connection attempt is in flight.
	StateConnecting
	// StateStreaming means frames are being consumed from an open connection.
	StateStreaming
	// StatePolling means a fetch/parse/update cycle is in progress.
	StatePolling
	// StateBackoff means the collector is waiting before its next attempt
	// or cycle.
	StateBackoff
	// StateStopping means Stop was called and the run loop has not yet
	// observed it.
	StateStopping
	// StateStopped means the run loop has returned.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StatePolling:
		return "polling"
	case StateBackoff:
		return "backoff"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
