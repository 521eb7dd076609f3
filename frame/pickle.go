package frame

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"
)

// The pickle format is a self-describing gob stream of the frame's columns.
// Unlike csv and parquet it stores values natively, so coordinate pairs and
// datetimes round-trip without any text re-encoding.

func init() {
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register(false)
	gob.Register("")
	gob.Register(time.Time{})
	gob.Register(LatLong{})
}

type pickleFile struct {
	Columns []Column
}

// ReadPickle loads a pickled frame from disk.
func ReadPickle(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pf pickleFile
	if err := gob.NewDecoder(f).Decode(&pf); err != nil {
		return nil, fmt.Errorf("read pickle %s: %w", path, err)
	}
	cols := make([]*Column, len(pf.Columns))
	for i := range pf.Columns {
		cols[i] = &pf.Columns[i]
	}
	return New(cols...)
}

// WritePickle writes the frame as a gob stream.
func WritePickle(fr *Frame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	pf := pickleFile{Columns: make([]Column, fr.NumCols())}
	for i, c := range fr.Columns() {
		pf.Columns[i] = *c
	}
	if err := gob.NewEncoder(f).Encode(pf); err != nil {
		f.Close()
		return fmt.Errorf("write pickle %s: %w", path, err)
	}
	return f.Close()
}
