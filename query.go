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
	"encoding/hex"
	"fmt"
	"strings"
)

// Query formats the template with the escaped arguments, executes it on the
// server, and classifies the response into a row set, a scalar count, or an
// empty result. A response with an unrecognized result kind fails with the
// MalformedResult envelope.
//
// Unlike Execute, errors on this path are returned exactly as the transport
// reported them, without envelope normalization.
func (conn *Connection) Query(ctx context.Context, template string, args ...any) (*ResultSet, error) {
	stmt := formatQuery(template, args...)
	res, err := conn.call(ctx, methodExecuteQuery, []byte(stmt), CompressionNone)
	if err != nil {
		return nil, err
	}
	resp, ok := res.(*QueryResponse)
	if !ok {
		return nil, fmt.Errorf("stratum: unexpected execute_query result %T", res)
	}

	switch resp.Kind {
	case ResultKindRows:
		rows := make([]*Row, 0, len(resp.Rows))
		for _, raw := range resp.Rows {
			rows = append(rows, newRow(raw, resp.Schema))
		}
		return &ResultSet{Kind: ResultKindRows, Schema: resp.Schema, Rows: rows}, nil
	case ResultKindInt:
		return &ResultSet{Kind: ResultKindInt, Count: resp.Count}, nil
	case ResultKindVoid:
		return &ResultSet{Kind: ResultKindVoid}, nil
	default:
		return nil, &Error{
			Kind:    KindMalformedResult,
			Message: fmt.Sprintf("unrecognized result kind %q", resp.Kind),
		}
	}
}

// formatQuery applies printf-style substitution. String arguments are escaped
// for single-quoted literals and byte slices are rendered as hex blobs.
func formatQuery(template string, args ...any) string {
	if len(args) == 0 {
		return template
	}
	escaped := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			escaped[i] = strings.ReplaceAll(v, "'", "''")
		case []byte:
			escaped[i] = hex.EncodeToString(v)
		default:
			escaped[i] = arg
		}
	}
	return fmt.Sprintf(template, escaped...)
}
