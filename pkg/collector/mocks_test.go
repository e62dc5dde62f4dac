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
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errFakeConnClosed = errors.New("fake connection closed")

// occupancyCall records one RecordOccupancy invocation on the fake sink.
type occupancyCall struct {
	uid, name                        string
	currentFill, freeSpace, maxSpace int
}

// temperatureCall records one RecordTemperature invocation on the fake sink.
type temperatureCall struct {
	uid, name string
	celsius   float64
}

// fakeSink implements metrics.Sink and records every update.
type fakeSink struct {
	mu          sync.Mutex
	occupancy   []occupancyCall
	temperature []temperatureCall
}

func (s *fakeSink) RecordOccupancy(uid, name string, currentFill, freeSpace, maxSpace int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.occupancy = append(s.occupancy, occupancyCall{
		uid:         uid,
		name:        name,
		currentFill: currentFill,
		freeSpace:   freeSpace,
		maxSpace:    maxSpace,
	})
}

func (s *fakeSink) RecordTemperature(uid, name string, celsius float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.temperature = append(s.temperature, temperatureCall{uid: uid, name: name, celsius: celsius})
}

func (s *fakeSink) occupancyCalls() []occupancyCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]occupancyCall(nil), s.occupancy...)
}

func (s *fakeSink) temperatureCalls() []temperatureCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]temperatureCall(nil), s.temperature...)
}

// fakeConn is a scripted connection. It serves the given frames in order;
// once exhausted it either reports closure immediately or, with holdOpen,
// blocks until Close is called.
type fakeConn struct {
	mu        sync.Mutex
	frames    [][]byte
	writes    [][]byte
	holdOpen  bool
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn(holdOpen bool, frames ...[]byte) *fakeConn {
	return &fakeConn{
		frames:   frames,
		holdOpen: holdOpen,
		closed:   make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()

	if len(c.frames) > 0 {
		frame := c.frames[0]
		c.frames = c.frames[1:]
		c.mu.Unlock()

		return websocket.TextMessage, frame, nil
	}

	holdOpen := c.holdOpen
	c.mu.Unlock()

	if holdOpen {
		<-c.closed
	}

	return 0, nil, errFakeConnClosed
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writes = append(c.writes, append([]byte(nil), data...))

	return nil
}

func (c *fakeConn) WriteControl(int, []byte, time.Time) error { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error           { return nil }
func (c *fakeConn) SetPongHandler(func(string) error)         {}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) sentMessages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([][]byte(nil), c.writes...)
}

// fakeDialer serves scripted connections in order and counts attempts.
// Once the script is exhausted it returns dialErr.
type fakeDialer struct {
	mu       sync.Mutex
	conns    []*fakeConn
	dialErr  error
	attempts int
}

func (d *fakeDialer) DialContext(_ context.Context, _ string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.attempts++

	if len(d.conns) > 0 {
		conn := d.conns[0]
		d.conns = d.conns[1:]

		return conn, nil
	}

	if d.dialErr != nil {
		return nil, d.dialErr
	}

	return nil, errFakeConnClosed
}

func (d *fakeDialer) attemptCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.attempts
}

// fakeCollector implements Collector for supervisor tests. Run blocks until
// Stop is called or ctx is cancelled; a stuck collector ignores both.
type fakeCollector struct {
	stuck    bool
	stop     chan struct{}
	stopOnce sync.Once
	returned chan struct{}
}

func newFakeCollector(stuck bool) *fakeCollector {
	return &fakeCollector{
		stuck:    stuck,
		stop:     make(chan struct{}),
		returned: make(chan struct{}),
	}
}

func (f *fakeCollector) Run(ctx context.Context) error {
	if f.stuck {
		// Simulates a collector wedged in a network call.
		<-make(chan struct{})
	}

	select {
	case <-ctx.Done():
	case <-f.stop:
	}

	close(f.returned)

	return nil
}

func (f *fakeCollector) Stop() {
	f.stopOnce.Do(func() { close(f.stop) })
}

func (f *fakeCollector) State() State { return StateStopped }

func (f *fakeCollector) stopped() bool {
	select {
	case <-f.stop:
		return true
	default:
		return false
	}
}
