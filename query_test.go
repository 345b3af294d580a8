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
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		{Name: "name", Type: StringDataType},
		{Name: "count", Type: IntDataType},
	}
}

func testRawRows(n int) []RawRow {
	rows := make([]RawRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, RawRow{
			Key: []byte(fmt.Sprintf("k%d", i)),
			Columns: []RawColumn{
				{Name: []byte("name"), Value: []byte(fmt.Sprintf("row-%d", i))},
				{Name: []byte("count"), Value: []byte(fmt.Sprintf("%d", i*10))},
			},
		})
	}
	return rows
}

func TestQueryRows(t *testing.T) {
	conn, mt := openConn(t)

	stmt := "SELECT * FROM events LIMIT 3"
	mt.On("Call", mock.Anything, methodExecuteQuery, []byte(stmt), CompressionNone).
		Return(&QueryResponse{Kind: ResultKindRows, Schema: testSchema(), Rows: testRawRows(3)}, nil)

	rs, err := conn.Query(context.Background(), stmt)
	require.NoError(t, err)
	require.Equal(t, ResultKindRows, rs.Kind)
	require.Len(t, rs.Rows, 3)
	for i, row := range rs.Rows {
		require.Equal(t, []byte(fmt.Sprintf("k%d", i)), row.Key())
		v, err := row.Get("count")
		require.NoError(t, err)
		require.Equal(t, int64(i*10), v)
	}
}

func TestQueryCount(t *testing.T) {
	conn, mt := openConn(t)

	stmt := "SELECT COUNT(*) FROM events"
	mt.On("Call", mock.Anything, methodExecuteQuery, []byte(stmt), CompressionNone).
		Return(&QueryResponse{Kind: ResultKindInt, Count: 42}, nil)

	rs, err := conn.Query(context.Background(), stmt)
	require.NoError(t, err)
	require.Equal(t, ResultKindInt, rs.Kind)
	require.Equal(t, int64(42), rs.Count)
	require.Empty(t, rs.Rows)
}

func TestQueryVoid(t *testing.T) {
	conn, mt := openConn(t)

	stmt := "UPDATE events SET v = 1 WHERE k = 'a'"
	mt.On("Call", mock.Anything, methodExecuteQuery, []byte(stmt), CompressionNone).
		Return(&QueryResponse{Kind: ResultKindVoid}, nil)

	rs, err := conn.Query(context.Background(), stmt)
	require.NoError(t, err)
	require.Equal(t, ResultKindVoid, rs.Kind)
	require.Empty(t, rs.Rows)
	require.Zero(t, rs.Count)
}

func TestQueryUnknownResultKind(t *testing.T) {
	conn, mt := openConn(t)

	stmt := "SELECT * FROM events"
	mt.On("Call", mock.Anything, methodExecuteQuery, []byte(stmt), CompressionNone).
		Return(&QueryResponse{Kind: ResultKind("PREPARED")}, nil)

	_, err := conn.Query(context.Background(), stmt)
	var envelope *Error
	require.ErrorAs(t, err, &envelope)
	require.Equal(t, KindMalformedResult, envelope.Kind)
}

func TestQueryErrorBypassesEnvelope(t *testing.T) {
	// Query hands transport errors back untouched; only Execute and Use run
	// them through the envelope mapper.
	conn, mt := openConn(t)

	srvErr := &ServerError{Name: "InvalidRequestException", Why: "no viable alternative"}
	stmt := "SELEKT *"
	mt.On("Call", mock.Anything, methodExecuteQuery, []byte(stmt), CompressionNone).
		Return(nil, srvErr)

	_, err := conn.Query(context.Background(), stmt)
	require.Equal(t, srvErr, err)
	var envelope *Error
	require.False(t, errors.As(err, &envelope))
}

func TestQuerySubstitutesTemplate(t *testing.T) {
	conn, mt := openConn(t)

	want := "SELECT * FROM events WHERE name = 'o''brien' LIMIT 5"
	mt.On("Call", mock.Anything, methodExecuteQuery, []byte(want), CompressionNone).
		Return(&QueryResponse{Kind: ResultKindVoid}, nil)

	_, err := conn.Query(context.Background(),
		"SELECT * FROM events WHERE name = '%s' LIMIT %d", "o'brien", 5)
	require.NoError(t, err)
	mt.AssertCalled(t, "Call", mock.Anything, methodExecuteQuery, []byte(want), CompressionNone)
}

func TestFormatQuery(t *testing.T) {
	require.Equal(t, "plain", formatQuery("plain"))
	require.Equal(t, "v = 'it''s'", formatQuery("v = '%s'", "it's"))
	require.Equal(t, "k = cafe01", formatQuery("k = %s", []byte{0xca, 0xfe, 0x01}))
	require.Equal(t, "n = 7", formatQuery("n = %d", 7))
}
