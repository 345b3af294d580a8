/*
 * Copyright 2024 StratumDB, Inc.
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

package stratum

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventKind discriminates connection lifecycle events.
type EventKind int

const (
	// EventError reports a transport-level error. The connection may still be
	// usable; readiness is not changed by this event.
	EventError EventKind = iota
	// EventClosed reports that the transport connection is gone. The
	// connection is no longer ready.
	EventClosed
)

// Event is a lifecycle notification delivered on the Events channel.
type Event struct {
	// Session identifies the connection instance emitting the event.
	Session uuid.UUID
	Kind    EventKind
	Err     error
}

const eventBuffer = 16

// Connection is a single logical connection to one Stratum endpoint.
//
// A Connection is created by Open, becomes usable after Connect succeeds, and
// is torn down by Close. Operations invoked before Connect completes are not
// blocked, but only calls made after a successful Connect are trusted to
// reach the server.
type Connection struct {
	config  *Config
	session uuid.UUID

	mu         sync.Mutex
	transport  Transport
	ready      bool
	keyspace   string
	connecting bool

	events chan Event
}

// Open creates a new connection from the given configuration. The connection
// does not touch the network until Connect is called.
func Open(config *Config) (*Connection, error) {
	cfg, err := config.normalize()
	if err != nil {
		return nil, err
	}
	if cfg.NewTransport == nil {
		return nil, errors.New("stratum: config.NewTransport is required")
	}
	return &Connection{
		config:  cfg,
		session: uuid.New(),
		events:  make(chan Event, eventBuffer),
	}, nil
}

// Connect dials the endpoint, authenticates, and selects the configured
// keyspace. Dialing and authentication run under the configured Timeout; when
// the budget is exceeded the transport is destroyed and the returned error is
// the TimeoutException envelope. A late completion of the losing path is
// discarded.
//
// Only one Connect may be in flight per connection; overlapping calls fail
// immediately.
func (conn *Connection) Connect(ctx context.Context) error {
	conn.mu.Lock()
	if conn.connecting {
		conn.mu.Unlock()
		return errors.New("stratum: connect already in flight")
	}
	conn.connecting = true
	t := conn.config.NewTransport(conn.config.Host, conn.config.Port)
	conn.transport = t
	conn.ready = false
	conn.mu.Unlock()
	defer func() {
		conn.mu.Lock()
		conn.connecting = false
		conn.mu.Unlock()
	}()

	go conn.pumpSignals(t)

	startupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The timer covers dial and authentication; whichever of the two paths
	// wins, the loser's outcome stays in the buffered channel.
	done := make(chan error, 1)
	go func() {
		done <- conn.startup(startupCtx, t)
	}()

	timer := time.NewTimer(conn.config.Timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			_ = t.Close()
			return err
		}
	case <-timer.C:
		cancel()
		_ = t.Close()
		return &Error{Kind: KindTimeout, Message: "startup sequence did not complete in time"}
	case <-ctx.Done():
		cancel()
		_ = t.Close()
		return ctx.Err()
	}

	conn.mu.Lock()
	conn.ready = true
	conn.mu.Unlock()

	if conn.config.Keyspace != "" {
		return conn.Use(ctx, conn.config.Keyspace)
	}
	return nil
}

// startup runs the timer-guarded part of the sequence.
func (conn *Connection) startup(ctx context.Context, t Transport) error {
	if err := t.Dial(ctx); err != nil {
		return err
	}
	return conn.authenticate(ctx, t)
}

// Close ends the transport session. The connection must be re-established
// with Connect before further use.
func (conn *Connection) Close() {
	conn.mu.Lock()
	t := conn.transport
	conn.transport = nil
	conn.ready = false
	conn.mu.Unlock()
	if t != nil {
		_ = t.Close()
	}
}

// Ready reports whether the startup sequence has completed and the transport
// has not been closed since.
func (conn *Connection) Ready() bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.ready
}

// Keyspace returns the active keyspace, or the empty string when none has
// been selected.
func (conn *Connection) Keyspace() string {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.keyspace
}

// Session returns the identifier tagging events emitted by this connection.
func (conn *Connection) Session() uuid.UUID {
	return conn.session
}

// Events returns the channel carrying lifecycle events. The channel is
// buffered; a receiver that falls behind loses events rather than blocking
// the connection.
func (conn *Connection) Events() <-chan Event {
	return conn.events
}

// pumpSignals forwards transport signals as connection events. It exits when
// the transport closes its signal channel.
func (conn *Connection) pumpSignals(t Transport) {
	for sig := range t.Signals() {
		switch sig.Kind {
		case SignalClosed:
			conn.mu.Lock()
			// A signal from a previous transport must not unready the
			// connection after a fresh Connect.
			if conn.transport == t {
				conn.ready = false
			}
			conn.mu.Unlock()
			conn.emit(Event{Session: conn.session, Kind: EventClosed, Err: sig.Err})
		case SignalError:
			conn.emit(Event{Session: conn.session, Kind: EventError, Err: sig.Err})
		}
	}
}

func (conn *Connection) emit(ev Event) {
	select {
	case conn.events <- ev:
	default:
	}
}

// call issues a remote procedure on the current transport.
func (conn *Connection) call(ctx context.Context, method string, args ...any) (any, error) {
	conn.mu.Lock()
	t := conn.transport
	conn.mu.Unlock()
	if t == nil {
		return nil, errors.New("stratum: connection is not open")
	}
	return t.Call(ctx, method, args...)
}
