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

import "context"

// Remote procedure names understood by every Stratum server.
const (
	methodLogin            = "login"
	methodDescribeKeyspace = "describe_keyspace"
	methodSetKeyspace      = "set_keyspace"
	methodExecuteQuery     = "execute_query"
)

// Compression is the wire compression marker attached to query calls.
type Compression string

// CompressionNone disables query compression. Queries are always sent with
// compression disabled.
const CompressionNone Compression = "NONE"

// SignalKind discriminates transport lifecycle signals.
type SignalKind int

const (
	// SignalError reports a socket-level error. The transport may still be
	// usable afterwards.
	SignalError SignalKind = iota
	// SignalClosed reports that the underlying connection is gone.
	SignalClosed
)

// Signal is a lifecycle notification emitted by a transport.
type Signal struct {
	Kind SignalKind
	Err  error
}

// Transport is the RPC boundary between the SDK and the wire codec. The SDK
// never encodes frames itself; it drives a Transport produced by the
// configured TransportFactory.
//
// Implementations must close the Signals channel from Close, and Close must
// be safe to call more than once. A Transport is never redialed after Close;
// each Connect attempt asks the factory for a fresh handle.
type Transport interface {
	// Dial opens the underlying connection.
	Dial(ctx context.Context) error
	// Call invokes a named remote procedure with positional arguments and
	// returns the decoded result.
	Call(ctx context.Context, method string, args ...any) (any, error)
	// Signals reports transport lifecycle signals.
	Signals() <-chan Signal
	// Close forcibly tears down the underlying connection.
	Close() error
}

// TransportFactory builds a fresh transport bound to one endpoint.
type TransportFactory func(host string, port int) Transport
