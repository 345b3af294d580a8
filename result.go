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
	"fmt"
	"strconv"
	"time"
)

// ResultKind is the server-reported discriminator for query responses.
type ResultKind string

const (
	// ResultKindRows marks a response carrying a row set.
	ResultKindRows ResultKind = "ROWS"
	// ResultKindInt marks a response carrying a single integer.
	ResultKindInt ResultKind = "INT"
	// ResultKindVoid marks a response carrying nothing.
	ResultKindVoid ResultKind = "VOID"
)

// QueryResponse is the raw, undecoded response to an execute_query call as
// produced by the transport codec.
type QueryResponse struct {
	Kind   ResultKind
	Schema Schema
	Rows   []RawRow
	Count  int64
}

// RawRow pairs a row key with its undecoded column cells.
type RawRow struct {
	Key     []byte
	Columns []RawColumn
}

// RawColumn is a single undecoded cell.
type RawColumn struct {
	Name  []byte
	Value []byte
}

// Value stores the contents of a single decoded cell.
type Value any

// Schema describes the fields in a query result.
type Schema []*FieldSchema

// Field returns the schema entry for the named field, or nil when the field
// is not described.
func (s Schema) Field(name string) *FieldSchema {
	for _, fs := range s {
		if fs.Name == name {
			return fs
		}
	}
	return nil
}

// FieldSchema describes a single field.
type FieldSchema struct {
	// Name is the field name.
	Name string
	// Type is the field data type.
	Type DataType
}

// DataType is the type of field.
type DataType string

const (
	// StringDataType is a string data type.
	StringDataType DataType = "string"
	// IntDataType is an int data type.
	IntDataType DataType = "int"
	// FloatDataType is a float data type.
	FloatDataType DataType = "float"
	// BooleanDataType is a bool data type.
	BooleanDataType DataType = "boolean"
	// TimestampDataType is a timestamp data type.
	TimestampDataType DataType = "timestamp"
	// BytesDataType is a raw bytes data type. Fields absent from the schema
	// decode as bytes.
	BytesDataType DataType = "bytes"
)

func convertValue(v []byte, typ DataType) (Value, error) {
	switch typ {
	case StringDataType:
		return string(v), nil
	case IntDataType:
		return strconv.ParseInt(string(v), 10, 64)
	case FloatDataType:
		return strconv.ParseFloat(string(v), 64)
	case BooleanDataType:
		return strconv.ParseBool(string(v))
	case TimestampDataType:
		return time.Parse(time.RFC3339Nano, string(v))
	case BytesDataType:
		return append([]byte(nil), v...), nil
	default:
		return nil, fmt.Errorf("unrecognized type: %s", typ)
	}
}

// Row is a decode-on-demand view over one raw row and the shared result
// schema.
type Row struct {
	raw    RawRow
	schema Schema
}

func newRow(raw RawRow, schema Schema) *Row {
	return &Row{raw: raw, schema: schema}
}

// Key returns the row key.
func (r *Row) Key() []byte {
	return r.raw.Key
}

// Len returns the number of columns present in the row.
func (r *Row) Len() int {
	return len(r.raw.Columns)
}

// Name returns the name of the i-th column.
func (r *Row) Name(i int) string {
	return string(r.raw.Columns[i].Name)
}

// Value decodes the i-th column through the result schema. Columns the schema
// does not describe decode as raw bytes.
func (r *Row) Value(i int) (Value, error) {
	col := r.raw.Columns[i]
	typ := BytesDataType
	if fs := r.schema.Field(string(col.Name)); fs != nil {
		typ = fs.Type
	}
	return convertValue(col.Value, typ)
}

// Get decodes the named column. It returns nil when the row does not carry
// the column.
func (r *Row) Get(name string) (Value, error) {
	for i := range r.raw.Columns {
		if string(r.raw.Columns[i].Name) == name {
			return r.Value(i)
		}
	}
	return nil, nil
}

// ResultSet is the typed outcome of a query: a row set, a scalar count, or
// nothing, discriminated by Kind.
type ResultSet struct {
	// Kind tells which of the fields below is meaningful.
	Kind ResultKind
	// Schema describes the row fields. Set only for ResultKindRows.
	Schema Schema
	// Rows holds the decoded rows in server order. Set only for ResultKindRows.
	Rows []*Row
	// Count is the scalar result. Set only for ResultKindInt.
	Count int64
}
