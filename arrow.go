package stratum

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ToArrowBatch converts a ROWS result into a single Arrow record using the
// result schema. Columns a row does not carry are appended as nulls.
func (rs *ResultSet) ToArrowBatch() (arrow.Record, error) {
	if rs.Kind != ResultKindRows {
		return nil, fmt.Errorf("unexpected result kind: %s", rs.Kind)
	}

	fields := make([]arrow.Field, len(rs.Schema))
	for i, fs := range rs.Schema {
		typ, err := arrowType(fs.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: fs.Name, Type: typ, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	for _, row := range rs.Rows {
		for i, fs := range rs.Schema {
			val, err := row.Get(fs.Name)
			if err != nil {
				return nil, err
			}
			if val == nil {
				b.Field(i).AppendNull()
				continue
			}
			appendValue(b.Field(i), val)
		}
	}
	return b.NewRecord(), nil
}

func arrowType(typ DataType) (arrow.DataType, error) {
	switch typ {
	case StringDataType:
		return arrow.BinaryTypes.String, nil
	case IntDataType:
		return arrow.PrimitiveTypes.Int64, nil
	case FloatDataType:
		return arrow.PrimitiveTypes.Float64, nil
	case BooleanDataType:
		return arrow.FixedWidthTypes.Boolean, nil
	case TimestampDataType:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	case BytesDataType:
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, fmt.Errorf("unrecognized type: %s", typ)
	}
}

// appendValue relies on convertValue having produced the Go type matching the
// field's builder.
func appendValue(fb array.Builder, val Value) {
	switch b := fb.(type) {
	case *array.StringBuilder:
		b.Append(val.(string))
	case *array.Int64Builder:
		b.Append(val.(int64))
	case *array.Float64Builder:
		b.Append(val.(float64))
	case *array.BooleanBuilder:
		b.Append(val.(bool))
	case *array.TimestampBuilder:
		b.Append(arrow.Timestamp(val.(time.Time).UnixNano()))
	case *array.BinaryBuilder:
		b.Append(val.([]byte))
	default:
		fb.AppendNull()
	}
}

// EncodeRecordBatches encodes the given record batches into a base64 encoded
// byte slice in Arrow IPC format.
func EncodeRecordBatches(schema *arrow.Schema, batches []arrow.Record) (payload []byte, err error) {
	if len(batches) == 0 {
		return nil, errors.New("cannot encode empty batches")
	}

	var buf bytes.Buffer
	defer func() {
		if err == nil {
			payload = buf.Bytes()
		}
	}()

	encoder := base64.NewEncoder(base64.StdEncoding, &buf)
	defer func() {
		err = errors.Join(err, encoder.Close())
	}()

	writer := ipc.NewWriter(encoder, ipc.WithSchema(schema))
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	for _, batch := range batches {
		if err := writer.Write(batch); err != nil {
			return nil, err
		}
	}
	return
}

// DecodeRecordBatches decodes the given base64 encoded byte slice into record
// batches.
func DecodeRecordBatches(data []byte) ([]arrow.Record, error) {
	decoder := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(data))
	reader, err := ipc.NewReader(decoder, ipc.WithDelayReadSchema(true))
	if err != nil {
		return nil, err
	}

	batches := make([]arrow.Record, 0)
	for reader.Next() {
		batch := reader.Record()
		batch.Retain()
		batches = append(batches, batch)
	}
	return batches, nil
}
