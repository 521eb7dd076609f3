package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// CSVOptions control the csv codec. Compression and Encoding correspond to
// the "compression" and "encoding" loading-info params. Unknown params of
// other readers (such as the pandas "engine" selector) are ignored.
type CSVOptions struct {
	// Compression is one of "", "none", "gzip", "zstd" or "lz4".
	Compression string
	// Encoding is one of "", "utf-8", "latin-1" or "windows-1252".
	Encoding string
}

func decompressionReader(r io.Reader, compression string) (io.Reader, io.Closer, error) {
	switch compression {
	case "", "none":
		return r, nil, nil
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, gz, nil
	case "zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		rc := dec.IOReadCloser()
		return rc, rc, nil
	case "lz4":
		return lz4.NewReader(r), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression %q", compression)
	}
}

func charmapEncoding(name string) (encoding.Encoding, error) {
	switch name {
	case "", "utf-8", "utf8", "UTF-8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// ReadCSV loads a delimited-text file into a frame. The first record is the
// header; every column comes back as object dtype with string values, ready
// for a declared-dtype cast. Empty fields load as missing values.
func ReadCSV(path string, o CSVOptions) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closer, err := decompressionReader(f, o.Compression)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	enc, err := charmapEncoding(o.Encoding)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv %s: missing header record", path)
	}

	header := records[0]
	cols := make([]*Column, len(header))
	for i, name := range header {
		values := make([]any, 0, len(records)-1)
		for _, rec := range records[1:] {
			if rec[i] == "" {
				values = append(values, nil)
			} else {
				values = append(values, rec[i])
			}
		}
		cols[i] = &Column{Name: name, Dtype: Object, Values: values}
	}
	return New(cols...)
}

// WriteCSV writes the frame as delimited text. Values are rendered in the
// form the csv reader and dtype cast reverse: datetimes as RFC 3339,
// coordinate pairs as parenthesized tuples, missing values as empty fields.
func WriteCSV(fr *Frame, path string, o CSVOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var finish func() error
	switch o.Compression {
	case "", "none":
	case "gzip":
		gz := gzip.NewWriter(f)
		w, finish = gz, gz.Close
	case "zstd":
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		w, finish = enc, enc.Close
	case "lz4":
		lw := lz4.NewWriter(f)
		w, finish = lw, lw.Close
	default:
		return fmt.Errorf("unsupported compression %q", o.Compression)
	}

	enc, err := charmapEncoding(o.Encoding)
	if err != nil {
		return err
	}
	var tw *transform.Writer
	if enc != nil {
		tw = transform.NewWriter(w, enc.NewEncoder())
		w = tw
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(fr.Names()); err != nil {
		return err
	}
	record := make([]string, fr.NumCols())
	for i := 0; i < fr.NumRows(); i++ {
		for j, c := range fr.Columns() {
			record[j] = formatValue(c.Values[i])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	// flush any bytes the encoder retained from a rune split across a
	// buffered write
	if tw != nil {
		if err := tw.Close(); err != nil {
			return err
		}
	}
	if finish != nil {
		if err := finish(); err != nil {
			return err
		}
	}
	return f.Close()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case LatLong:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
