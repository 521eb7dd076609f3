package frame

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// ReadParquet loads a columnar binary file into a frame via Arrow. Columns
// come back with the dtype implied by their physical type; string columns as
// object, ready for the declared-dtype cast.
func ReadParquet(ctx context.Context, path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rdr, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	defer rdr.Close()

	arrRdr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	tbl, err := arrRdr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	defer tbl.Release()

	cols := make([]*Column, 0, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		field := tbl.Schema().Field(i)
		col, err := columnFromChunked(field, tbl.Column(i).Data())
		if err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, err)
		}
		cols = append(cols, col)
	}
	return New(cols...)
}

func columnFromChunked(field arrow.Field, chunked *arrow.Chunked) (*Column, error) {
	col := &Column{Name: field.Name, Values: make([]any, 0, chunked.Len())}
	for _, chunk := range chunked.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				col.Values = append(col.Values, nil)
				continue
			}
			switch arr := chunk.(type) {
			case *array.Int64:
				col.Values = append(col.Values, arr.Value(i))
			case *array.Float64:
				col.Values = append(col.Values, arr.Value(i))
			case *array.Boolean:
				col.Values = append(col.Values, arr.Value(i))
			case *array.String:
				col.Values = append(col.Values, arr.Value(i))
			case *array.Timestamp:
				unit := arr.DataType().(*arrow.TimestampType).Unit
				col.Values = append(col.Values, arr.Value(i).ToTime(unit).UTC())
			default:
				return nil, fmt.Errorf("column %q: unsupported arrow type %s", field.Name, chunk.DataType())
			}
		}
	}

	switch field.Type.ID() {
	case arrow.INT64:
		col.Dtype = Int64
	case arrow.FLOAT64:
		col.Dtype = Float64
	case arrow.BOOL:
		col.Dtype = Bool
	case arrow.TIMESTAMP:
		col.Dtype = Datetime
	default:
		col.Dtype = Object
	}
	return col, nil
}

func arrowType(d Dtype) arrow.DataType {
	switch d {
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case Bool:
		return arrow.FixedWidthTypes.Boolean
	case Datetime:
		return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}
	default:
		// object and category columns are stored as text
		return arrow.BinaryTypes.String
	}
}

// WriteParquet writes the frame as a single-record parquet file. Object and
// category columns are rendered to their text form, matching what the dtype
// cast and coordinate decoding reverse on load.
func WriteParquet(ctx context.Context, fr *Frame, path string) error {
	fields := make([]arrow.Field, fr.NumCols())
	for i, c := range fr.Columns() {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Dtype), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	bldr := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer bldr.Release()

	for i, c := range fr.Columns() {
		if err := appendArrowColumn(bldr.Field(i), c); err != nil {
			return fmt.Errorf("write parquet %s: %w", path, err)
		}
	}
	rec := bldr.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.NewArrowWriterProperties())
	if err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return w.Close()
}

func appendArrowColumn(b array.Builder, c *Column) error {
	for _, v := range c.Values {
		if v == nil {
			b.AppendNull()
			continue
		}
		switch bb := b.(type) {
		case *array.Int64Builder:
			x, ok := v.(int64)
			if !ok {
				return fmt.Errorf("column %q: expected int64, got %T", c.Name, v)
			}
			bb.Append(x)
		case *array.Float64Builder:
			x, ok := v.(float64)
			if !ok {
				return fmt.Errorf("column %q: expected float64, got %T", c.Name, v)
			}
			bb.Append(x)
		case *array.BooleanBuilder:
			x, ok := v.(bool)
			if !ok {
				return fmt.Errorf("column %q: expected bool, got %T", c.Name, v)
			}
			bb.Append(x)
		case *array.TimestampBuilder:
			x, ok := v.(time.Time)
			if !ok {
				return fmt.Errorf("column %q: expected time.Time, got %T", c.Name, v)
			}
			bb.Append(arrow.Timestamp(x.UnixNano()))
		case *array.StringBuilder:
			bb.Append(formatValue(v))
		default:
			return fmt.Errorf("column %q: unsupported builder %T", c.Name, b)
		}
	}
	return nil
}
