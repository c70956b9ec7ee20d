// Package arrowio provides Arrow IPC interchange for Strata frames.
// Frames are written as Arrow files with one Float64 field per column;
// missing slots map to Arrow nulls in both directions.
package arrowio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/strata/pkg/frame"
)

// batchSize is the number of rows per Arrow record batch
const batchSize = 65536

// WriteFrame writes the frame to w as an Arrow IPC file.
func WriteFrame(w io.Writer, f *frame.Frame) error {
	schema := frameSchema(f)

	pool := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return fmt.Errorf("failed to create Arrow writer: %w", err)
	}

	names := f.Columns()
	rows := f.NumRows()

	for lo := 0; lo < rows; lo += batchSize {
		hi := lo + batchSize
		if hi > rows {
			hi = rows
		}

		for ci, name := range names {
			col, _ := f.Column(name)
			fb := builder.Field(ci).(*array.Float64Builder)
			for i := lo; i < hi; i++ {
				if v, ok := col.Get(i); ok {
					fb.Append(v)
				} else {
					fb.AppendNull()
				}
			}
		}

		record := builder.NewRecord()
		err := fw.Write(record)
		record.Release()
		if err != nil {
			return fmt.Errorf("failed to write record batch: %w", err)
		}
	}

	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close Arrow writer: %w", err)
	}

	return nil
}

// ReadFrame reads an Arrow IPC file into a frame. All fields must be
// Float64; nulls become missing slots.
func ReadFrame(r io.Reader) (*frame.Frame, error) {
	// The IPC file reader needs a seekable source
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Arrow data: %w", err)
	}

	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}
	defer fr.Close()

	schema := fr.Schema()
	numCols := len(schema.Fields())

	values := make([][]float64, numCols)
	valid := make([][]bool, numCols)

	for bi := 0; bi < fr.NumRecords(); bi++ {
		record, err := fr.Record(bi)
		if err != nil {
			return nil, fmt.Errorf("failed to read record batch %d: %w", bi, err)
		}

		for ci := 0; ci < numCols; ci++ {
			col, ok := record.Column(ci).(*array.Float64)
			if !ok {
				return nil, fmt.Errorf("field %s is %s, expected float64",
					schema.Field(ci).Name, record.Column(ci).DataType())
			}

			for i := 0; i < col.Len(); i++ {
				if col.IsNull(i) {
					values[ci] = append(values[ci], 0)
					valid[ci] = append(valid[ci], false)
				} else {
					values[ci] = append(values[ci], col.Value(i))
					valid[ci] = append(valid[ci], true)
				}
			}
		}
	}

	cols := make([]*frame.Series, numCols)
	for ci := 0; ci < numCols; ci++ {
		s, err := frame.NewMaskedSeries(schema.Field(ci).Name, values[ci], valid[ci])
		if err != nil {
			return nil, fmt.Errorf("failed to build column %s: %w", schema.Field(ci).Name, err)
		}
		cols[ci] = s
	}

	return frame.New(cols...)
}

// frameSchema builds the Arrow schema for a frame: nullable Float64 fields
// in column order.
func frameSchema(f *frame.Frame) *arrow.Schema {
	names := f.Columns()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{
			Name:     name,
			Type:     arrow.PrimitiveTypes.Float64,
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}
