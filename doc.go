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

/*
Package stratum provides a lightweight client for a single logical connection
to a Stratum server over its binary RPC transport.

# Connection

Use Open to create a connection, then Connect to run the startup sequence
(dial, optional login, optional keyspace selection) under one timeout budget:

	conn, err := stratum.Open(&stratum.Config{
		Host:         "db.example.com:9160",
		User:         "reader",
		Password:     "secret",
		Keyspace:     "events",
		NewTransport: wire.New,
	})
	if err != nil {
		return err
	}
	if err := conn.Connect(ctx); err != nil {
		return err
	}
	defer conn.Close()

The wire codec is not part of this package; Config.NewTransport plugs in the
generated transport. Lifecycle notifications (transport errors, closure) are
delivered on conn.Events().

# Queries

Query formats a printf-style template with escaped arguments and classifies
the server response into rows, a scalar count, or an empty result:

	rs, err := conn.Query(ctx, "SELECT * FROM events WHERE kind = '%s'", kind)
	if err != nil {
		return err
	}
	if rs.Kind == stratum.ResultKindRows {
		for _, row := range rs.Rows {
			v, _ := row.Get("payload")
			...
		}
	}

Arbitrary remote procedures go through Execute, which normalizes
server-reported failures into the *Error envelope.
*/
package stratum
